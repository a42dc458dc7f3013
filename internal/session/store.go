// Package session tracks which users are currently logged in. The active set
// is the authoritative login state: a valid token alone does not make a user
// logged in after they log out.
package session

import (
	"context"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// activeSetKey is the Redis set holding the IDs of logged-in users.
const activeSetKey = "sessions:active"

// Store is the registry's logged-in set.
type Store interface {
	Add(ctx context.Context, userID uint) error
	Remove(ctx context.Context, userID uint) error
	Contains(ctx context.Context, userID uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// NewStore returns a Redis-backed store when a client is available, falling
// back to an in-process store otherwise.
func NewStore(rdb *redis.Client) Store {
	if rdb != nil {
		return &redisStore{rdb: rdb}
	}
	return NewMemoryStore()
}

type redisStore struct {
	rdb *redis.Client
}

func member(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func (s *redisStore) Add(ctx context.Context, userID uint) error {
	return s.rdb.SAdd(ctx, activeSetKey, member(userID)).Err()
}

func (s *redisStore) Remove(ctx context.Context, userID uint) error {
	return s.rdb.SRem(ctx, activeSetKey, member(userID)).Err()
}

func (s *redisStore) Contains(ctx context.Context, userID uint) (bool, error) {
	return s.rdb.SIsMember(ctx, activeSetKey, member(userID)).Result()
}

func (s *redisStore) Count(ctx context.Context) (int64, error) {
	return s.rdb.SCard(ctx, activeSetKey).Result()
}

// MemoryStore keeps the active set in process memory behind a mutex.
type MemoryStore struct {
	mu     sync.RWMutex
	active map[uint]struct{}
}

// NewMemoryStore creates an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{active: make(map[uint]struct{})}
}

func (s *MemoryStore) Add(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[userID] = struct{}{}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, userID)
	return nil
}

func (s *MemoryStore) Contains(_ context.Context, userID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.active[userID]
	return ok, nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.active)), nil
}
