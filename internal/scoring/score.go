package scoring

import "math"

// Each card carries 11 score fields, every field in [0, 10].
const (
	FieldMax     = 10
	NumFields    = 11
	MaxCardScore = NumFields * FieldMax
)

// ScoreFields lists the per-card score columns in canonical order.
// This order is the wire order for card payloads and export rows.
var ScoreFields = []string{
	"quran", "duas", "taraweeh", "tahajjud", "duha",
	"rawatib", "main_lesson", "required_lesson",
	"enrichment_lesson", "charity_worship", "extra_work",
}

// Percentage returns total/max as a percentage rounded to one decimal.
// A zero max yields 0: aggregates over zero cards have max == 0.
func Percentage(total, max int) float64 {
	if max <= 0 {
		return 0
	}
	return math.Round(float64(total)/float64(max)*1000) / 10
}

// Reduce sums per-card totals into an aggregate total and max. The max
// scales with how many cards were actually submitted, not with the
// window length: two cards give max 220 even inside a 7-day window.
func Reduce(cardTotals []int) (total, max int) {
	for _, t := range cardTotals {
		total += t
	}
	return total, len(cardTotals) * MaxCardScore
}
