package dialog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "order-bot:session:"

// RedisStore переживает рестарт бота. ttl == 0 — без срока жизни.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(userID int64) string {
	return fmt.Sprintf("%s%d", redisKeyPrefix, userID)
}

func (r *RedisStore) Get(ctx context.Context, userID int64) (*Session, bool, error) {
	raw, err := r.client.Get(ctx, redisKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	s, err := Unmarshal(raw)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (r *RedisStore) Set(ctx context.Context, userID int64, s *Session) error {
	raw, err := Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKey(userID), raw, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, redisKey(userID)).Err()
}
