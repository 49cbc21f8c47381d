package domain_test

import (
	"testing"
	"time"

	"github.com/attune-labs/attune-agent/internal/domain"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    domain.Category
	}{
		{0, domain.CategoryNone},
		{90 * time.Minute, domain.CategoryNone}, // boundary is exclusive on the left
		{91 * time.Minute, domain.CategoryMorning},
		{150 * time.Minute, domain.CategoryMorning}, // inclusive on the right
		{151 * time.Minute, domain.CategoryNone},    // gap before midday
		{210 * time.Minute, domain.CategoryNone},
		{211 * time.Minute, domain.CategoryMidday},
		{270 * time.Minute, domain.CategoryMidday},
		{271 * time.Minute, domain.CategoryNone},
		{450 * time.Minute, domain.CategoryNone},
		{451 * time.Minute, domain.CategoryEvening},
		{510 * time.Minute, domain.CategoryEvening},
		{511 * time.Minute, domain.CategoryNone},
		{24 * time.Hour, domain.CategoryNone}, // exactly 24h is not yet nextday
		{24*time.Hour + time.Minute, domain.CategoryNextDay},
		{25 * time.Hour, domain.CategoryNextDay},
		{72 * time.Hour, domain.CategoryNextDay},
	}

	for _, tc := range cases {
		if got := domain.Classify(tc.elapsed); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.elapsed, got, tc.want)
		}
	}
}

// Sweeping minute by minute over two days: every elapsed value lands in
// exactly one bucket, i.e. the windows are pairwise disjoint.
func TestClassifyIsTotalAndExclusive(t *testing.T) {
	counts := make(map[domain.Category]int)
	for m := 0; m <= 48*60; m++ {
		counts[domain.Classify(time.Duration(m)*time.Minute)]++
	}

	// 60 minutes each for the three bounded windows.
	for _, cat := range []domain.Category{domain.CategoryMorning, domain.CategoryMidday, domain.CategoryEvening} {
		if counts[cat] != 60 {
			t.Errorf("window %q covers %d minutes, want 60", cat, counts[cat])
		}
	}
	if counts[domain.CategoryNextDay] != 24*60 {
		t.Errorf("nextday covers %d minutes, want %d", counts[domain.CategoryNextDay], 24*60)
	}
}

func TestClassifyPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative elapsed")
		}
	}()
	domain.Classify(-time.Second)
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"morning", "midday", "evening", "nextday"} {
		cat, err := domain.ParseCategory(s)
		if err != nil {
			t.Fatalf("ParseCategory(%q) failed: %v", s, err)
		}
		if string(cat) != s {
			t.Fatalf("ParseCategory(%q) = %q", s, cat)
		}
	}

	if cat, err := domain.ParseCategory(""); err != nil || cat != domain.CategoryNone {
		t.Fatalf("empty category should parse to none, got %q err=%v", cat, err)
	}

	if _, err := domain.ParseCategory("brunch"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
