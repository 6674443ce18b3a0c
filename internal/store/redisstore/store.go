package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "chat:session:"

// Store caches the user -> session-id mapping in front of the session
// table. Entries expire; the database stays the source of truth.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func sessionKey(userID uint64) string {
	return fmt.Sprintf("%s%d", sessionKeyPrefix, userID)
}

// GetSessionID returns the cached session id for a user, or ("", nil)
// on a miss.
func (s *Store) GetSessionID(ctx context.Context, userID uint64) (string, error) {
	v, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Store) SetSessionID(ctx context.Context, userID uint64, sessionID string) error {
	return s.rdb.Set(ctx, sessionKey(userID), sessionID, s.ttl).Err()
}
