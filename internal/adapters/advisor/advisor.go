// Package advisor is the boundary to the hosted AI collaborator that
// writes descriptions and reviews outfit images. The engine only consumes
// already-parsed numbers; free-text extraction and the bounded [1,10]
// variant live here, outside any engine lock.
package advisor

import (
	"context"
	"regexp"
	"strconv"

	"github.com/okian/runway/internal/domain/rating"
)

// Review is the parsed outcome of an image review.
type Review struct {
	AnalysisText  string
	TrendAccuracy float64
	Creativity    float64
	Fit           float64
}

// Advisor generates descriptions and scored reviews. Implementations may
// call a hosted model and should honor ctx for cancellation.
type Advisor interface {
	// DescribeTrend writes a short blurb for a trend theme.
	DescribeTrend(ctx context.Context, name string) (string, error)

	// DescribeCompetition writes a short blurb for a competition theme.
	DescribeCompetition(ctx context.Context, name string) (string, error)

	// ReviewOutfit analyzes an outfit image against the trend and returns
	// the analysis with the three extracted criteria.
	ReviewOutfit(ctx context.Context, imageRef, trendName string) (Review, error)
}

var (
	trendAccuracyRe = regexp.MustCompile(`Trend Accuracy:\s*(\d+(?:\.\d+)?)`)
	creativityRe    = regexp.MustCompile(`Creativity:\s*(\d+(?:\.\d+)?)`)
	fitRe           = regexp.MustCompile(`Overall Fit:\s*(\d+(?:\.\d+)?)`)
)

// ParseReview extracts the three criteria from formatted analysis text.
// A criterion that cannot be found falls back to the default of 5.0, and
// extracted values are clamped to [1,10].
func ParseReview(analysis string) Review {
	return Review{
		AnalysisText:  analysis,
		TrendAccuracy: extract(trendAccuracyRe, analysis),
		Creativity:    extract(creativityRe, analysis),
		Fit:           extract(fitRe, analysis),
	}
}

func extract(re *regexp.Regexp, analysis string) float64 {
	m := re.FindStringSubmatch(analysis)
	if m == nil {
		return rating.DefaultCriterion
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return rating.DefaultCriterion
	}
	return rating.Clamp(v)
}
