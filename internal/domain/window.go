package domain

import (
	"fmt"
	"time"
)

// Category is a follow-up reminder window. Exactly one category (or
// CategoryNone) applies to any elapsed time since the last prompt.
type Category string

const (
	CategoryNone    Category = ""
	CategoryMorning Category = "morning"
	CategoryMidday  Category = "midday"
	CategoryEvening Category = "evening"
	CategoryNextDay Category = "nextday"
)

// Window boundaries. The windows are intentionally narrow and
// non-contiguous: an hourly cron catches each user at most once per
// category, and a user in a gap is simply not due yet. The gaps stay as
// they are; closing them would change how often users hear from us.
const (
	morningAfter = 90 * time.Minute
	morningUntil = 150 * time.Minute
	middayAfter  = 210 * time.Minute
	middayUntil  = 270 * time.Minute
	eveningAfter = 450 * time.Minute
	eveningUntil = 510 * time.Minute
	nextDayAfter = 24 * time.Hour
)

// Classify buckets the time elapsed since the last check-in prompt into
// a follow-up category. Each window is half-open: (after, until].
// A negative elapsed is a caller bug, not a data condition.
func Classify(elapsed time.Duration) Category {
	if elapsed < 0 {
		panic(fmt.Sprintf("domain.Classify: negative elapsed %v", elapsed))
	}

	switch {
	case elapsed > morningAfter && elapsed <= morningUntil:
		return CategoryMorning
	case elapsed > middayAfter && elapsed <= middayUntil:
		return CategoryMidday
	case elapsed > eveningAfter && elapsed <= eveningUntil:
		return CategoryEvening
	case elapsed > nextDayAfter:
		return CategoryNextDay
	default:
		return CategoryNone
	}
}

// ParseCategory maps the wire value from the cron trigger payload to a
// Category. The empty string means "sweep every category".
func ParseCategory(s string) (Category, error) {
	switch s {
	case "":
		return CategoryNone, nil
	case "morning":
		return CategoryMorning, nil
	case "midday":
		return CategoryMidday, nil
	case "evening":
		return CategoryEvening, nil
	case "nextday":
		return CategoryNextDay, nil
	default:
		return CategoryNone, fmt.Errorf("unknown reminder category %q", s)
	}
}

// Categories lists the real follow-up categories, in sweep order.
func Categories() []Category {
	return []Category{CategoryMorning, CategoryMidday, CategoryEvening, CategoryNextDay}
}
