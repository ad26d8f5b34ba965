package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

const lastSeenKeyPrefix = "lastseen:"

// LastSeenStore records when a user was last connected. Liveness itself
// comes from the in-memory connection registry; this store only keeps the
// historical timestamp shown next to offline users, with a TTL so stale
// entries age out. A nil store is valid and turns every method into a no-op.
type LastSeenStore struct {
	redis  *redis.Client
	logger *utils.Logger
	ttl    time.Duration
}

func NewLastSeenStore(redisClient *redis.Client, logger *utils.Logger, ttl time.Duration) *LastSeenStore {
	return &LastSeenStore{
		redis:  redisClient,
		logger: logger,
		ttl:    ttl,
	}
}

// Touch stores the current time as the user's last-seen timestamp.
func (s *LastSeenStore) Touch(ctx context.Context, userID string) {
	if s == nil {
		return
	}
	key := lastSeenKeyPrefix + userID
	if err := s.redis.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		s.logger.Warn("Failed to record last-seen", "userId", userID, "error", err)
	}
}

// Get returns the stored last-seen time for a user. found is false when no
// entry exists or it has expired.
func (s *LastSeenStore) Get(ctx context.Context, userID string) (time.Time, bool, error) {
	if s == nil {
		return time.Time{}, false, nil
	}
	value, err := s.redis.Get(ctx, lastSeenKeyPrefix+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to get last-seen: %w", err)
	}

	seen, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse last-seen value: %w", err)
	}
	return seen, true, nil
}
