package sentiment

import (
	"context"
	"strings"
)

// KeywordAnalyzer is the fallback scorer used when no model is
// configured, and in tests. It counts mood words, which is crude but
// deterministic and free.
type KeywordAnalyzer struct{}

func NewKeywordAnalyzer() *KeywordAnalyzer {
	return &KeywordAnalyzer{}
}

var positiveWords = []string{
	"good", "great", "excellent", "happy", "excited", "joy", "wonderful",
	"fantastic", "nice", "love", "positive", "amazing", "well", "better",
	"okay", "fine", "calm",
}

var negativeWords = []string{
	"bad", "terrible", "sad", "depressed", "angry", "upset", "awful",
	"horrible", "hate", "negative", "stressed", "anxious", "worried",
	"overwhelmed", "struggling",
}

// Analyze implements domain.SentimentAnalyzer.
func (k *KeywordAnalyzer) Analyze(_ context.Context, text string) (float64, error) {
	lower := strings.ToLower(text)

	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	if pos+neg == 0 {
		return 0, nil
	}
	return float64(pos-neg) / float64(pos+neg), nil
}
