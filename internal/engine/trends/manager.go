// Package trends owns the trend-challenge lifecycle: the single active
// trend, its submission intake and rating application, and the archive.
package trends

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/runway/internal/domain/model"
	"github.com/okian/runway/internal/domain/rating"
	"github.com/okian/runway/internal/engine/points"
	"github.com/okian/runway/internal/store"
	"github.com/okian/runway/pkg/logger"
	"github.com/okian/runway/pkg/metrics"
)

// DefaultDurationDays is used when a caller passes a non-positive duration.
// Durations are inert metadata; nothing expires a trend automatically.
const DefaultDurationDays = 7

// RatingResult reports the outcome of a rating call.
type RatingResult struct {
	Submission model.Submission
	Account    model.UserAccount
}

// Manager serializes all mutations of the trends aggregate. The check-then-
// act around the single-active invariant is safe because every operation
// holds the mutex for its full read-modify-write-save cycle, and a failed
// save discards the in-memory mutation.
type Manager struct {
	mu     sync.RWMutex
	store  store.Store
	ledger *points.Ledger
	state  *model.TrendState
	log    logger.Logger

	now   func() time.Time
	newID func() string
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock sets the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a trend manager backed by st, crediting points
// through ledger.
func NewManager(st store.Store, ledger *points.Ledger, opts ...Option) *Manager {
	m := &Manager{
		store:  st,
		ledger: ledger,
		state:  model.NewTrendState(),
		log:    logger.Nop(),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load restores the trends aggregate from the store.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := model.NewTrendState()
	if err := m.store.Load(ctx, store.AggregateTrends, state); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	if state.Submissions == nil {
		state.Submissions = make(map[string][]model.Submission)
	}
	m.state = state
	metrics.UpdateActiveTrend(state.Active != nil)
	return nil
}

// Announce opens a new trend challenge. Fails with ErrTrendActive while
// another trend is running. Announcing resets the working submission set.
func (m *Manager) Announce(ctx context.Context, name, description string, durationDays int) (model.Trend, error) {
	if durationDays <= 0 {
		durationDays = DefaultDurationDays
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Active != nil {
		return model.Trend{}, fmt.Errorf("%w: %s", ErrTrendActive, m.state.Active.Name)
	}

	next := m.state.Clone()
	next.Active = &model.Trend{
		Name:         name,
		Description:  description,
		StartTime:    m.now().UTC(),
		DurationDays: durationDays,
	}
	next.Submissions = make(map[string][]model.Submission)

	if err := m.store.Save(ctx, store.AggregateTrends, next); err != nil {
		return model.Trend{}, err
	}
	m.state = next

	metrics.RecordTrendAnnounced()
	metrics.UpdateActiveTrend(true)
	m.log.Info(ctx, "trend announced",
		logger.String("name", name),
		logger.Int("durationDays", durationDays),
	)
	return *next.Active, nil
}

// Active returns a copy of the active trend, or nil when none is running.
func (m *Manager) Active(_ context.Context) *model.Trend {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state.Active == nil {
		return nil
	}
	active := *m.state.Active
	active.Participants = append([]string(nil), m.state.Active.Participants...)
	return &active
}

// End archives the active trend together with its submissions. The archive
// stays queryable through RecentSubmissions and History.
func (m *Manager) End(ctx context.Context) (model.ArchivedTrend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Active == nil {
		return model.ArchivedTrend{}, ErrNoTrend
	}

	next := m.state.Clone()
	archived := model.ArchivedTrend{
		Trend:       *next.Active,
		Submissions: next.Submissions,
		EndedAt:     m.now().UTC(),
	}
	next.Past = append(next.Past, archived)
	next.Active = nil
	next.Submissions = make(map[string][]model.Submission)

	if err := m.store.Save(ctx, store.AggregateTrends, next); err != nil {
		return model.ArchivedTrend{}, err
	}
	m.state = next

	metrics.RecordTrendEnded()
	metrics.UpdateActiveTrend(false)
	m.log.Info(ctx, "trend ended",
		logger.String("name", archived.Trend.Name),
		logger.Int("participants", len(archived.Trend.Participants)),
	)
	return archived, nil
}

// Submit records a new outfit submission for the active trend. Every call
// appends a fresh record; earlier submissions are never overwritten.
func (m *Manager) Submit(ctx context.Context, userID, displayName, imageRef, analysisText string) (model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Active == nil {
		return model.Submission{}, ErrNoTrend
	}

	next := m.state.Clone()
	sub := model.Submission{
		ID:           m.newID(),
		UserID:       userID,
		DisplayName:  displayName,
		ImageRef:     imageRef,
		CreatedAt:    m.now().UTC(),
		AnalysisText: analysisText,
	}
	next.Submissions[userID] = append(next.Submissions[userID], sub)
	if !next.Active.HasParticipant(userID) {
		next.Active.Participants = append(next.Active.Participants, userID)
	}

	if err := m.store.Save(ctx, store.AggregateTrends, next); err != nil {
		return model.Submission{}, err
	}
	m.state = next

	metrics.RecordSubmission()
	m.log.Info(ctx, "outfit submitted",
		logger.String("userID", userID),
		logger.String("submissionID", sub.ID),
		logger.String("trend", next.Active.Name),
	)
	return sub, nil
}

// Rate applies the three criteria to a submission and credits the derived
// points. Target resolution: submissionID when given, otherwise the user's
// most recent submission by CreatedAt. Criteria are taken as-is; the engine
// neither clamps nor validates the [1,10] contract.
//
// Points are credited once per call. Rating the same submission twice
// overwrites the rating but credits points again; callers that need
// idempotence must not repeat the call.
func (m *Manager) Rate(ctx context.Context, userID string, trendAccuracy, creativity, fit float64, submissionID string) (RatingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.state.Clone()
	target := resolveTarget(next.Submissions[userID], submissionID)
	if target == nil {
		return RatingResult{}, fmt.Errorf("%w: user %s", ErrNoSubmission, userID)
	}

	score := rating.Compute(trendAccuracy, creativity, fit)
	target.Rating = &model.Rating{
		TrendAccuracy: score.TrendAccuracy,
		Creativity:    score.Creativity,
		Fit:           score.Fit,
		Average:       score.Average,
		Points:        score.Points,
	}

	// The award is durable before the rating itself: the ledger owns its
	// aggregate and saves independently.
	acct, err := m.ledger.AddPoints(ctx, userID, score.Points, target.DisplayName)
	if err != nil {
		return RatingResult{}, err
	}

	if err := m.store.Save(ctx, store.AggregateTrends, next); err != nil {
		return RatingResult{}, err
	}
	m.state = next

	metrics.RecordRating()
	m.log.Info(ctx, "submission rated",
		logger.String("userID", userID),
		logger.String("submissionID", target.ID),
		logger.Float64("average", score.Average),
		logger.Int("points", score.Points),
	)
	return RatingResult{Submission: *target, Account: acct}, nil
}

// RecentSubmissions returns the user's submissions newest first, spanning
// the active trend and the archive. limit <= 0 returns all of them.
func (m *Manager) RecentSubmissions(_ context.Context, userID string, limit int) []model.Submission {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Submission
	appendNewestFirst := func(subs []model.Submission) {
		for i := len(subs) - 1; i >= 0; i-- {
			out = append(out, subs[i])
		}
	}

	appendNewestFirst(m.state.Submissions[userID])
	for i := len(m.state.Past) - 1; i >= 0; i-- {
		appendNewestFirst(m.state.Past[i].Submissions[userID])
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// History returns copies of the archived trends, oldest first.
func (m *Manager) History(_ context.Context) []model.ArchivedTrend {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.ArchivedTrend, len(m.state.Past))
	copy(out, m.state.Past)
	return out
}

// resolveTarget picks the submission to rate: by explicit ID when given,
// otherwise the one with the maximum CreatedAt.
func resolveTarget(subs []model.Submission, submissionID string) *model.Submission {
	if submissionID != "" {
		for i := range subs {
			if subs[i].ID == submissionID {
				return &subs[i]
			}
		}
		return nil
	}

	var latest *model.Submission
	for i := range subs {
		if latest == nil || subs[i].CreatedAt.After(latest.CreatedAt) {
			latest = &subs[i]
		}
	}
	return latest
}
