// Package points maintains the authoritative per-user score ledger.
// It is the only writer of point balances.
package points

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/runway/internal/domain/model"
	"github.com/okian/runway/internal/store"
	"github.com/okian/runway/pkg/logger"
	"github.com/okian/runway/pkg/metrics"
)

// Award constants.
const (
	// WinBonus is the flat point award for winning a competition.
	WinBonus = 100

	defaultLeaderboardLimit = 10
)

// Ledger owns the accounts aggregate. All mutations are serialized by its
// mutex and become visible only after the snapshot is durably saved.
type Ledger struct {
	mu    sync.RWMutex
	store store.Store
	book  *model.AccountBook
	log   logger.Logger
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLedger creates a ledger backed by st.
func NewLedger(st store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: st,
		book:  model.NewAccountBook(),
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load restores the accounts aggregate from the store. A missing document
// starts an empty ledger.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	book := model.NewAccountBook()
	if err := l.store.Load(ctx, store.AggregateAccounts, book); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	if book.Users == nil {
		book.Users = make(map[string]*model.UserAccount)
	}
	l.book = book
	metrics.UpdateTrackedUsers(len(book.Users))
	return nil
}

// AddPoints credits points to a user, creating the account on first use.
// Every call also increments participations by one: "received any award"
// and "participated" are intentionally the same event in this ledger.
func (l *Ledger) AddPoints(ctx context.Context, userID string, pts int, displayName string) (model.UserAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.book.Clone()
	acct := ensureAccount(next, userID, displayName)
	acct.Points += pts
	acct.Participations++

	if err := l.store.Save(ctx, store.AggregateAccounts, next); err != nil {
		return model.UserAccount{}, err
	}
	l.book = next

	metrics.RecordPointsAwarded(pts)
	metrics.UpdateTrackedUsers(len(next.Users))
	l.log.Debug(ctx, "points credited",
		logger.String("userID", userID),
		logger.Int("points", pts),
		logger.Int("total", acct.Points),
	)
	return *acct, nil
}

// ApplyWin records a competition win: wins+1 and the flat bonus, applied
// directly to the account. Winning is not counted as a participation.
func (l *Ledger) ApplyWin(ctx context.Context, userID string, displayName string) (model.UserAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.book.Clone()
	acct := ensureAccount(next, userID, displayName)
	acct.Wins++
	acct.Points += WinBonus

	if err := l.store.Save(ctx, store.AggregateAccounts, next); err != nil {
		return model.UserAccount{}, err
	}
	l.book = next

	metrics.RecordPointsAwarded(WinBonus)
	metrics.UpdateTrackedUsers(len(next.Users))
	l.log.Info(ctx, "win recorded",
		logger.String("userID", userID),
		logger.Int("wins", acct.Wins),
	)
	return *acct, nil
}

// Rename refreshes the display name of an existing account. Unknown users
// are ignored; accounts are only created by point awards.
func (l *Ledger) Rename(ctx context.Context, userID, displayName string) error {
	if displayName == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.book.Users[userID]
	if !ok || acct.DisplayName == displayName {
		return nil
	}

	next := l.book.Clone()
	next.Users[userID].DisplayName = displayName
	if err := l.store.Save(ctx, store.AggregateAccounts, next); err != nil {
		return err
	}
	l.book = next
	return nil
}

// User returns a copy of the account for userID, or nil if unknown.
func (l *Ledger) User(_ context.Context, userID string) *model.UserAccount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.book.Users[userID]
	if !ok {
		return nil
	}
	copied := *acct
	return &copied
}

// Leaderboard returns up to limit accounts ordered by points descending.
// Ties keep account creation order. limit <= 0 falls back to the default.
func (l *Ledger) Leaderboard(_ context.Context, limit int) []model.UserAccount {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	ranked := make([]model.UserAccount, 0, len(l.book.Order))
	for _, id := range l.book.Order {
		if acct, ok := l.book.Users[id]; ok {
			ranked = append(ranked, *acct)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Count returns the number of tracked accounts.
func (l *Ledger) Count(_ context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.book.Users)
}

// ensureAccount fetches or lazily creates an account in book.
func ensureAccount(book *model.AccountBook, userID, displayName string) *model.UserAccount {
	if acct, ok := book.Users[userID]; ok {
		return acct
	}
	if displayName == "" {
		displayName = fmt.Sprintf("User%s", userID)
	}
	acct := &model.UserAccount{
		UserID:      userID,
		DisplayName: displayName,
	}
	book.Users[userID] = acct
	book.Order = append(book.Order, userID)
	return acct
}
