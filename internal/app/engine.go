// Package app assembles the contest engine: the four aggregate owners
// wired to one store, started and exposed as a single unit.
package app

import (
	"context"
	"sync"

	"github.com/okian/runway/internal/domain/model"
	"github.com/okian/runway/internal/engine/chatlog"
	"github.com/okian/runway/internal/engine/contest"
	"github.com/okian/runway/internal/engine/points"
	"github.com/okian/runway/internal/engine/trends"
	"github.com/okian/runway/internal/store"
	"github.com/okian/runway/pkg/logger"
)

// Engine bundles the aggregate managers behind one lifecycle. It is a
// library-level core: callers invoke manager operations in-process, there
// is no transport here.
type Engine struct {
	mu sync.Mutex

	store        store.Store
	log          logger.Logger
	historyLimit int

	ledger *points.Ledger
	trends *trends.Manager
	comps  *contest.Manager
	convos *chatlog.Cache

	started bool
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithStore sets the snapshot store. Defaults to an in-memory store.
func WithStore(st store.Store) Option {
	return func(e *Engine) {
		if st != nil {
			e.store = st
		}
	}
}

// WithLogger sets a custom logger for the engine and its managers.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithHistoryLimit overrides the conversation cache cap.
func WithHistoryLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.historyLimit = limit
		}
	}
}

// New constructs an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:          logger.Nop(),
		historyLimit: chatlog.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start builds the managers and restores the four aggregates. Safe to call
// once; later calls are no-ops.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}
	if e.store == nil {
		e.store = store.NewMemStore()
	}

	e.ledger = points.NewLedger(e.store, points.WithLogger(e.log.Named("points")))
	e.trends = trends.NewManager(e.store, e.ledger, trends.WithLogger(e.log.Named("trends")))
	e.comps = contest.NewManager(e.store, e.ledger, contest.WithLogger(e.log.Named("contest")))
	e.convos = chatlog.NewCache(e.store,
		chatlog.WithLogger(e.log.Named("chatlog")),
		chatlog.WithHistoryLimit(e.historyLimit),
	)

	for _, load := range []func(context.Context) error{
		e.ledger.Load,
		e.trends.Load,
		e.comps.Load,
		e.convos.Load,
	} {
		if err := load(ctx); err != nil {
			return err
		}
	}

	e.started = true
	e.log.Info(ctx, "contest engine started")
	return nil
}

// Leaderboard returns the ranked accounts projection.
func (e *Engine) Leaderboard(ctx context.Context, limit int) []model.UserAccount {
	return e.ledger.Leaderboard(ctx, limit)
}

// ActiveTrend returns the active trend, or nil.
func (e *Engine) ActiveTrend(ctx context.Context) *model.Trend {
	return e.trends.Active(ctx)
}

// ActiveCompetition returns the active competition, or nil.
func (e *Engine) ActiveCompetition(ctx context.Context) *model.Competition {
	return e.comps.Active(ctx)
}

// UserCount returns the number of tracked accounts.
func (e *Engine) UserCount(ctx context.Context) int {
	return e.ledger.Count(ctx)
}

// Points returns the points ledger.
func (e *Engine) Points() *points.Ledger { return e.ledger }

// Trends returns the challenge manager.
func (e *Engine) Trends() *trends.Manager { return e.trends }

// Contest returns the competition manager.
func (e *Engine) Contest() *contest.Manager { return e.comps }

// Conversations returns the context cache.
func (e *Engine) Conversations() *chatlog.Cache { return e.convos }
