// Package contest owns the competition lifecycle: the single active
// competition, entry intake, one-vote-per-voter enforcement, and winner
// determination.
package contest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/runway/internal/domain/model"
	"github.com/okian/runway/internal/engine/points"
	"github.com/okian/runway/internal/store"
	"github.com/okian/runway/pkg/logger"
	"github.com/okian/runway/pkg/metrics"
)

// Competition constants.
const (
	// DefaultDurationDays is used when a caller passes a non-positive
	// duration. Durations are inert metadata.
	DefaultDurationDays = 7

	// VotePoints is credited to the vote target, not the voter.
	VotePoints = 10
)

// Result reports the outcome of an ended competition.
type Result struct {
	Competition model.Competition
	Winner      *model.Winner
}

// Manager serializes all mutations of the competitions aggregate, tracked
// independently of the trend lifecycle. Same discipline as the trend
// manager: mutex around the full read-modify-write-save cycle, failed
// saves discard the mutation.
type Manager struct {
	mu     sync.RWMutex
	store  store.Store
	ledger *points.Ledger
	state  *model.CompetitionState
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

// NewManager creates a competition manager backed by st, crediting points
// through ledger.
func NewManager(st store.Store, ledger *points.Ledger, opts ...Option) *Manager {
	m := &Manager{
		store:  st,
		ledger: ledger,
		state:  model.NewCompetitionState(),
		log:    logger.Nop(),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load restores the competitions aggregate from the store.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := model.NewCompetitionState()
	if err := m.store.Load(ctx, store.AggregateCompetitions, state); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	if state.Votes == nil {
		state.Votes = make(map[string]string)
	}
	m.state = state
	metrics.UpdateActiveCompetition(state.Active != nil)
	return nil
}

// Start opens a new competition. Fails with ErrCompetitionActive while
// another one is running. Starting clears the vote-fact set.
func (m *Manager) Start(ctx context.Context, name, description, sponsor string, durationDays int) (model.Competition, error) {
	if durationDays <= 0 {
		durationDays = DefaultDurationDays
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Active != nil {
		return model.Competition{}, fmt.Errorf("%w: %s", ErrCompetitionActive, m.state.Active.Name)
	}

	next := m.state.Clone()
	next.Active = &model.Competition{
		Name:         name,
		Description:  description,
		Sponsor:      sponsor,
		StartTime:    m.now().UTC(),
		DurationDays: durationDays,
		Entries:      make(map[string][]model.Entry),
	}
	next.Votes = make(map[string]string)

	if err := m.store.Save(ctx, store.AggregateCompetitions, next); err != nil {
		return model.Competition{}, err
	}
	m.state = next

	metrics.RecordCompetitionStarted()
	metrics.UpdateActiveCompetition(true)
	m.log.Info(ctx, "competition started",
		logger.String("name", name),
		logger.String("sponsor", sponsor),
	)
	return *next.Active, nil
}

// Active returns a copy of the active competition, or nil when none.
func (m *Manager) Active(_ context.Context) *model.Competition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state.Active == nil {
		return nil
	}
	return copyCompetition(m.state.Active)
}

// SubmitEntry records a new entry for the active competition.
func (m *Manager) SubmitEntry(ctx context.Context, userID, displayName, imageRef, description string) (model.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Active == nil {
		return model.Entry{}, ErrNoCompetition
	}

	next := m.state.Clone()
	entry := model.Entry{
		ID:          m.newID(),
		UserID:      userID,
		DisplayName: displayName,
		ImageRef:    imageRef,
		Description: description,
		CreatedAt:   m.now().UTC(),
	}
	next.Active.Entries[userID] = append(next.Active.Entries[userID], entry)
	if !next.Active.HasParticipant(userID) {
		next.Active.Participants = append(next.Active.Participants, userID)
	}

	if err := m.store.Save(ctx, store.AggregateCompetitions, next); err != nil {
		return model.Entry{}, err
	}
	m.state = next

	metrics.RecordEntry()
	m.log.Info(ctx, "competition entry submitted",
		logger.String("userID", userID),
		logger.String("entryID", entry.ID),
	)
	return entry, nil
}

// Vote records one vote by voterID for targetUserID's latest entry. Each
// voter gets exactly one vote per competition; a second vote fails and does
// not move the first. The target is credited VotePoints immediately.
func (m *Manager) Vote(ctx context.Context, voterID, targetUserID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Active == nil {
		metrics.RecordVoteRejected("no_competition")
		return ErrNoCompetition
	}
	if len(m.state.Active.Entries[targetUserID]) == 0 {
		metrics.RecordVoteRejected("target_not_found")
		return fmt.Errorf("%w: %s", ErrTargetNotFound, targetUserID)
	}
	if _, voted := m.state.Votes[voterID]; voted {
		metrics.RecordVoteRejected("already_voted")
		return ErrAlreadyVoted
	}

	next := m.state.Clone()
	next.Votes[voterID] = targetUserID
	target := next.Active.LatestEntry(targetUserID)
	target.Votes++

	if _, err := m.ledger.AddPoints(ctx, targetUserID, VotePoints, target.DisplayName); err != nil {
		return err
	}

	if err := m.store.Save(ctx, store.AggregateCompetitions, next); err != nil {
		return err
	}
	m.state = next

	metrics.RecordVote()
	m.log.Info(ctx, "vote recorded",
		logger.String("voterID", voterID),
		logger.String("targetID", targetUserID),
		logger.Int("votes", target.Votes),
	)
	return nil
}

// End archives the active competition and clears the vote-fact set.
//
// Winner selection walks participants in insertion order and keeps the
// first whose latest entry has strictly the most votes; ties therefore go
// to the earliest entrant. The winner gets wins+1 and the flat bonus
// directly on the account, with no participation increment.
func (m *Manager) End(ctx context.Context) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Active == nil {
		return Result{}, ErrNoCompetition
	}

	next := m.state.Clone()
	comp := next.Active

	var winner *model.Winner
	maxVotes := -1
	for _, userID := range comp.Participants {
		entry := comp.LatestEntry(userID)
		if entry == nil {
			continue
		}
		if entry.Votes > maxVotes {
			maxVotes = entry.Votes
			winner = &model.Winner{
				UserID:      entry.UserID,
				DisplayName: entry.DisplayName,
				Votes:       entry.Votes,
			}
		}
	}
	comp.Winner = winner

	if winner != nil {
		if _, err := m.ledger.ApplyWin(ctx, winner.UserID, winner.DisplayName); err != nil {
			return Result{}, err
		}
	}

	next.Past = append(next.Past, *comp)
	next.Active = nil
	next.Votes = make(map[string]string)

	if err := m.store.Save(ctx, store.AggregateCompetitions, next); err != nil {
		return Result{}, err
	}
	m.state = next

	metrics.RecordCompetitionEnded()
	metrics.UpdateActiveCompetition(false)
	archived := next.Past[len(next.Past)-1]
	m.log.Info(ctx, "competition ended",
		logger.String("name", archived.Name),
		logger.Bool("hasWinner", winner != nil),
	)
	return Result{Competition: *copyCompetition(&archived), Winner: winner}, nil
}

// VoteCount returns the number of recorded vote facts for the active
// competition naming targetUserID.
func (m *Manager) VoteCount(_ context.Context, targetUserID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, target := range m.state.Votes {
		if target == targetUserID {
			count++
		}
	}
	return count
}

// History returns copies of the archived competitions, oldest first.
func (m *Manager) History(_ context.Context) []model.Competition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Competition, 0, len(m.state.Past))
	for i := range m.state.Past {
		out = append(out, *copyCompetition(&m.state.Past[i]))
	}
	return out
}

func copyCompetition(c *model.Competition) *model.Competition {
	out := *c
	out.Participants = append([]string(nil), c.Participants...)
	out.Entries = make(map[string][]model.Entry, len(c.Entries))
	for id, entries := range c.Entries {
		out.Entries[id] = append([]model.Entry(nil), entries...)
	}
	if c.Winner != nil {
		w := *c.Winner
		out.Winner = &w
	}
	return &out
}
