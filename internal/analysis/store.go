package analysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/leafsense/plant-backend/internal/shared"
	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 24 * time.Hour

// RedisStore keeps sessions as JSON blobs with a sliding TTL.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if ttl == 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{redis: redisClient, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = shared.NewID("sess_")
	}
	now := time.Now().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sess.RedisKey(), data, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, "analysis:"+id).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisStore) Update(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sess.RedisKey(), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, "analysis:"+id).Err()
}
