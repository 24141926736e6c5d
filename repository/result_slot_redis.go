package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"synergy-engine/domain"
)

const redisKeyPrefix = "synergy:result:"

// RedisResultSlot keeps each session's current result under one key with a TTL.
type RedisResultSlot struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResultSlot(addr string, ttl time.Duration) *RedisResultSlot {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisResultSlot{
		client: rdb,
		ttl:    ttl,
	}
}

// Ping checks the connection.
func (r *RedisResultSlot) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisResultSlot) Close() error {
	return r.client.Close()
}

func (r *RedisResultSlot) Load(ctx context.Context, sessionID string) (domain.AnalysisResult, bool, error) {
	val, err := r.client.Get(ctx, resultKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AnalysisResult{}, false, nil
	}
	if err != nil {
		return domain.AnalysisResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(val, &result); err != nil {
		return domain.AnalysisResult{}, false, fmt.Errorf("decode stored result: %w", err)
	}
	return result, true, nil
}

func (r *RedisResultSlot) Store(ctx context.Context, sessionID string, result domain.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return r.client.Set(ctx, resultKey(sessionID), data, r.ttl).Err()
}

func (r *RedisResultSlot) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, resultKey(sessionID)).Err()
}

func resultKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}
