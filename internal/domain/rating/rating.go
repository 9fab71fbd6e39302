// Package rating holds the scoring math for rated submissions.
//
// Criteria are contractually in [1,10] but Score does not clamp or reject
// out-of-range input; bounding, when wanted, happens at the collaborator
// boundary (see Clamp).
package rating

import "math"

// Point conversion constants.
const (
	pointsPerAveragePoint = 10
	criteriaCount         = 3

	// CriterionMin and CriterionMax bound a single criterion when a caller
	// opts into clamping.
	CriterionMin = 1.0
	CriterionMax = 10.0

	// DefaultCriterion substitutes a criterion the advisor failed to extract.
	DefaultCriterion = 5.0
)

// Score captures the derived values for one rating call.
type Score struct {
	TrendAccuracy float64
	Creativity    float64
	Fit           float64
	Average       float64
	Points        int
}

// Compute derives the average and point award from the three criteria.
// Points = floor(average * 10).
func Compute(trendAccuracy, creativity, fit float64) Score {
	avg := (trendAccuracy + creativity + fit) / criteriaCount
	return Score{
		TrendAccuracy: trendAccuracy,
		Creativity:    creativity,
		Fit:           fit,
		Average:       avg,
		Points:        int(math.Floor(avg * pointsPerAveragePoint)),
	}
}

// Clamp bounds a single criterion to [CriterionMin, CriterionMax].
func Clamp(v float64) float64 {
	return math.Max(CriterionMin, math.Min(CriterionMax, v))
}
