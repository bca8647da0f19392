package portal

import (
	"context"
	"errors"
	"time"

	"bookfair/internal/shared/constants"
	"bookfair/pkg/cache"
)

// SelectionHandoff carries an in-progress selection and chosen date
// across a single page navigation.
type SelectionHandoff struct {
	Selection       *SelectionSet `json:"selection"`
	ReservationDate string        `json:"reservation_date,omitempty"` // YYYY-MM-DD
}

// SessionStore hands a selection from one page to the next. A handoff
// is consumed exactly once; reading it removes it so a later unrelated
// navigation cannot resurrect a stale selection.
type SessionStore interface {
	Save(ctx context.Context, userID string, handoff *SelectionHandoff) error
	Consume(ctx context.Context, userID string) (*SelectionHandoff, error)
	Discard(ctx context.Context, userID string) error
}

type redisSessionStore struct {
	cache cache.Service
	ttl   time.Duration
}

// NewSessionStore backs the handoff with Redis so it expires on its own
// when the user abandons the workflow mid-navigation.
func NewSessionStore(cacheService cache.Service, ttl time.Duration) SessionStore {
	return &redisSessionStore{
		cache: cacheService,
		ttl:   ttl,
	}
}

func (s *redisSessionStore) Save(ctx context.Context, userID string, handoff *SelectionHandoff) error {
	key := constants.BuildPortalSelectionKey(userID)
	return s.cache.Set(ctx, key, handoff, s.ttl)
}

// Consume returns the stored handoff and deletes it, or nil when none
// is pending.
func (s *redisSessionStore) Consume(ctx context.Context, userID string) (*SelectionHandoff, error) {
	key := constants.BuildPortalSelectionKey(userID)

	var handoff SelectionHandoff
	err := s.cache.Get(ctx, key, &handoff)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		return nil, err
	}
	return &handoff, nil
}

func (s *redisSessionStore) Discard(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, constants.BuildPortalSelectionKey(userID))
}
