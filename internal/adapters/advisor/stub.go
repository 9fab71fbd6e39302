package advisor

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/runway/pkg/metrics"
)

// Stub configuration constants.
const (
	defaultMinLatency = 40 * time.Millisecond
	defaultMaxLatency = 120 * time.Millisecond
	defaultRandomSeed = 42

	criterionSpread = 6 // generated criteria land in [4, 10)
	criterionFloor  = 4
)

// TrendIdeas are canned themes the stub can describe without a model call.
var TrendIdeas = []string{
	"Y2K Revival", "Quiet Luxury", "Barbiecore", "Dark Academia",
	"Coastal Grandmother", "Cottagecore", "Cyberpunk", "Gorpcore",
	"Balletcore", "Regencycore", "Indie Sleaze", "Streetwear",
	"Punk Revival", "Western Chic", "Normcore", "Dopamine Dressing",
}

var trendBlurbs = map[string]string{
	"Y2K Revival":         "Late 90s/early 2000s nostalgia with low-rise jeans, baby tees, butterflies, and playful accessories.",
	"Quiet Luxury":        "Understated elegance with high-quality basics, neutral colors, and minimal branding.",
	"Barbiecore":          "Playful pink aesthetics with bold hues, plastic accessories, and feminine silhouettes.",
	"Dark Academia":       "Scholarly aesthetic with vintage-inspired tweed, plaid, oxford shirts, and leather accessories.",
	"Coastal Grandmother": "Breezy coastal style with linen, neutral tones, straw hats, and refined comfortable pieces.",
	"Cottagecore":         "Romanticized rural aesthetic with floral prints, prairie dresses, and natural fabrics.",
	"Cyberpunk":           "Futuristic aesthetic with metallic fabrics, neon accents, tech accessories, and edgy silhouettes.",
	"Gorpcore":            "Outdoorsy functional fashion with technical gear, fleece, hiking boots, and practical accessories.",
	"Balletcore":          "Ballet-inspired fashion with leg warmers, wrap tops, tulle skirts, and soft flowing fabrics.",
	"Regencycore":         "Regency era-inspired fashion with empire waistlines, lace details, and puff sleeves.",
	"Indie Sleaze":        "Gritty flash-photography aesthetic with layered vintage pieces and band tees.",
	"Streetwear":          "Urban casual style with graphic tees, hoodies, sneakers, and statement accessories.",
	"Punk Revival":        "Edgy style with leather, studs, plaid, combat boots, and DIY elements.",
	"Western Chic":        "Modern cowboy aesthetic with denim, fringe, boots, and Western-inspired accessories.",
	"Normcore":            "Intentionally ordinary clothing focusing on basics and practical pieces.",
	"Dopamine Dressing":   "Joy-inducing fashion with bold colors, fun patterns, and playful accessories.",
}

// Stub implements Advisor without a hosted model: deterministic seeded
// generation with simulated call latency, so the full pipeline can run
// offline and in tests.
type Stub struct {
	rng        *rand.Rand
	minLatency time.Duration
	maxLatency time.Duration
}

// Option applies a configuration option to the Stub.
type Option func(*Stub)

// WithLatencyRange sets the simulated model-call latency range.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *Stub) {
		if minLatency > 0 && maxLatency > minLatency {
			s.minLatency = minLatency
			s.maxLatency = maxLatency
		}
	}
}

// WithSeed sets the rng seed for reproducible reviews.
func WithSeed(seed int64) Option {
	return func(s *Stub) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic reviews
	}
}

// NewStub creates a stub advisor.
func NewStub(opts ...Option) *Stub {
	s := &Stub{
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic reviews
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DescribeTrend returns the canned blurb for known themes and a generic
// one otherwise.
func (s *Stub) DescribeTrend(ctx context.Context, name string) (string, error) {
	if err := s.simulateCall(ctx); err != nil {
		return "", err
	}
	if blurb, ok := trendBlurbs[name]; ok {
		return blurb, nil
	}
	return fmt.Sprintf("%s: a fresh community theme. Style an outfit that captures its signature pieces and overall mood.", name), nil
}

// DescribeCompetition returns a short competition blurb.
func (s *Stub) DescribeCompetition(ctx context.Context, name string) (string, error) {
	if err := s.simulateCall(ctx); err != nil {
		return "", err
	}
	return fmt.Sprintf("Show your best take on %q. Entries are judged by community votes; originality and cohesion win.", name), nil
}

// ReviewOutfit produces a formatted analysis with embedded ratings, then
// parses it back the same way a hosted-model response would be parsed.
func (s *Stub) ReviewOutfit(ctx context.Context, imageRef, trendName string) (Review, error) {
	if err := s.simulateCall(ctx); err != nil {
		return Review{}, err
	}

	accuracy := s.criterion()
	creativity := s.criterion()
	fit := s.criterion()

	analysis := fmt.Sprintf(`## Style Analysis
The outfit at %s reads clearly as %s: the silhouette and palette track the trend's signature pieces.

## Ratings
Trend Accuracy: %d/10
Creativity: %d/10
Overall Fit: %d/10

## Summary
A solid take on %s with room to push the styling further.`,
		imageRef, trendName, accuracy, creativity, fit, trendName)

	return ParseReview(analysis), nil
}

func (s *Stub) criterion() int {
	return criterionFloor + s.rng.Intn(criterionSpread)
}

// simulateCall blocks for the simulated latency, honoring ctx.
func (s *Stub) simulateCall(ctx context.Context) error {
	start := time.Now()
	latency := s.minLatency + time.Duration(s.rng.Int63n(int64(s.maxLatency-s.minLatency)))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(latency):
	}
	metrics.RecordAdvisorLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	return nil
}
