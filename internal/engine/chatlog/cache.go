// Package chatlog keeps a bounded per-user log of recent exchanges so the
// advisor can give feedback with continuity. The log is a cache, not
// authoritative state.
package chatlog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/runway/internal/domain/model"
	"github.com/okian/runway/internal/store"
	"github.com/okian/runway/pkg/logger"
)

// DefaultHistoryLimit caps each user's log; the oldest record is evicted
// first.
const DefaultHistoryLimit = 20

// Cache owns the conversations aggregate.
type Cache struct {
	mu    sync.RWMutex
	store store.Store
	log   *model.ConversationLog
	lg    logger.Logger
	limit int
	now   func() time.Time
}

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithHistoryLimit overrides the per-user record cap.
func WithHistoryLimit(limit int) Option {
	return func(c *Cache) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(c *Cache) {
		if lg != nil {
			c.lg = lg
		}
	}
}

// WithClock sets the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates a conversation cache backed by st.
func NewCache(st store.Store, opts ...Option) *Cache {
	c := &Cache{
		store: st,
		log:   model.NewConversationLog(),
		lg:    logger.Nop(),
		limit: DefaultHistoryLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load restores the conversations aggregate from the store.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := model.NewConversationLog()
	if err := c.store.Load(ctx, store.AggregateConversations, log); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	if log.ByUser == nil {
		log.ByUser = make(map[string][]model.ConversationRecord)
	}
	c.log = log
	return nil
}

// Append records one exchange and truncates the user's log to the cap,
// evicting the oldest records first.
func (c *Cache) Append(ctx context.Context, userID, userMessage, aiResponse, submissionRef string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.log.Clone()
	records := append(next.ByUser[userID], model.ConversationRecord{
		At:            c.now().UTC(),
		UserMessage:   userMessage,
		AIResponse:    aiResponse,
		SubmissionRef: submissionRef,
	})
	if len(records) > c.limit {
		records = records[len(records)-c.limit:]
	}
	next.ByUser[userID] = records

	if err := c.store.Save(ctx, store.AggregateConversations, next); err != nil {
		return err
	}
	c.log = next
	return nil
}

// Recent returns up to limit records for userID, oldest first with the
// most recent last. limit <= 0 returns the whole log.
func (c *Cache) Recent(_ context.Context, userID string, limit int) []model.ConversationRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := c.log.ByUser[userID]
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return append([]model.ConversationRecord(nil), records...)
}
