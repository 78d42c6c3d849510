package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// ProfileStore keeps cumulative user points in Redis so totals survive
// process restarts.
type ProfileStore struct {
	client *redis.Client
}

func NewProfileStore(client *redis.Client) *ProfileStore {
	return &ProfileStore{client: client}
}

// AddPoints credits a user atomically and returns the new total.
func (s *ProfileStore) AddPoints(ctx context.Context, userID string, points int) (int, error) {
	total, err := s.client.IncrBy(ctx, s.key(userID), int64(points)).Result()
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// Points returns a user's running total; a missing key reads as zero.
func (s *ProfileStore) Points(ctx context.Context, userID string) (int, error) {
	total, err := s.client.Get(ctx, s.key(userID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *ProfileStore) key(userID string) string {
	return "profile:points:" + userID
}
