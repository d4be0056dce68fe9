package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ IdempotencyStore = (*RedisStore)(nil)

// RedisStore — ключи идемпотентности платежей в Redis.
// Запись живёт ChargeTTL: по истечении повтор заказа считается новым списанием.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) GetTransaction(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) PutTransaction(ctx context.Context, key, transactionID string) error {
	// SET NX: первый успешный платёж выигрывает, перезапись запрещена.
	ok, err := s.client.SetNX(ctx, key, transactionID, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("redis setnx %s: key already exists", key)
	}
	return nil
}
