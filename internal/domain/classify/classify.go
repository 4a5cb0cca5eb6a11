// Package classify maps sustainability scores to qualitative bands.
package classify

import "math"

// Label is the human-readable message attached to a score.
type Label string

// Bands, best first.
const (
	Excellent Label = "Excellent sustainability score!"
	Good      Label = "Good sustainability score"
	Moderate  Label = "Moderate sustainability score"
	Low       Label = "Low sustainability score - consider improvements"
)

// Lower bounds, inclusive.
const (
	excellentFrom = 80
	goodFrom      = 60
	moderateFrom  = 40
)

// Band returns a short metric-friendly identifier for the label.
func (l Label) Band() string {
	switch l {
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	case Moderate:
		return "moderate"
	default:
		return "low"
	}
}

// Labels returns the bands from best to worst.
func Labels() []Label {
	return []Label{Excellent, Good, Moderate, Low}
}

// Classify evaluates the bands top-down. Scores outside [0,100] fall into the
// outermost bands; NaN is Low.
func Classify(score float64) Label {
	switch {
	case score >= excellentFrom:
		return Excellent
	case score >= goodFrom:
		return Good
	case score >= moderateFrom:
		return Moderate
	default:
		return Low
	}
}

// roundLimit is where float64 has no fractional digits left to round.
const roundLimit = 1e15

// Round2 rounds half away from zero to two decimal places. Magnitudes at or
// above roundLimit, and non-finite scores, are returned unchanged.
func Round2(score float64) float64 {
	if math.IsNaN(score) || math.Abs(score) >= roundLimit {
		return score
	}
	return math.Round(score*100) / 100
}

// Result is the outcome of one prediction.
type Result struct {
	Score float64 `json:"sustainability_score"`
	Label Label   `json:"message"`
}

// NewResult classifies the unrounded score and then rounds it for display.
func NewResult(score float64) Result {
	return Result{Score: Round2(score), Label: Classify(score)}
}
