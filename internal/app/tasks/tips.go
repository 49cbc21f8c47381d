package tasks

var focusTips = []string{
	"Break your task into smaller, more manageable steps.",
	"Use the Pomodoro Technique: 25 minutes of focus, then a 5-minute break.",
	"Remove distractions from your environment before starting.",
	"Create a clear, written checklist for your task.",
	"Set a timer for just 5 minutes - often getting started is the hardest part.",
	"Try body doubling: work alongside someone else, virtually or in person.",
	"Use 'if-then' planning: 'If [situation], then I will [action]'.",
	"Play background music or white noise to help with focus.",
	"Set up visual reminders where you'll notice them.",
	"Reward yourself after completing parts of your task.",
}

var selfCareTips = []string{
	"Take a short walk outside to get fresh air and sunlight.",
	"Practice deep breathing for 5 minutes.",
	"Stay hydrated - drink a glass of water now.",
	"Stretch your body gently for a few minutes.",
	"Listen to music that makes you feel good.",
	"Write down three things you're grateful for today.",
	"Connect with a friend or loved one, even just for a quick chat.",
	"Eat a nutritious meal or snack.",
	"Try a simple meditation or mindfulness exercise.",
	"Give yourself permission to take a short nap.",
	"Read something purely for enjoyment.",
	"Declutter one small area of your space.",
}
