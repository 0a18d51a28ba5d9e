package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLedger keeps pending payments in Redis until their order is saved
type RedisLedger struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewRedisLedger creates a ledger whose entries expire after ttl
func NewRedisLedger(redisClient *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// Get returns the pending payment for key or ErrPendingPaymentNotFound
func (l *RedisLedger) Get(ctx context.Context, key string) (*PendingPayment, error) {
	data, err := l.redisClient.Get(ctx, ledgerKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPendingPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending payment: %w", err)
	}

	var p PendingPayment
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pending payment: %w", err)
	}
	return &p, nil
}

// Put records a pending payment
func (l *RedisLedger) Put(ctx context.Context, p *PendingPayment) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode pending payment: %w", err)
	}

	if err := l.redisClient.Set(ctx, ledgerKey(p.Key), data, l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to record pending payment: %w", err)
	}
	return nil
}

// Delete removes a pending payment once its order exists
func (l *RedisLedger) Delete(ctx context.Context, key string) error {
	if err := l.redisClient.Del(ctx, ledgerKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending payment: %w", err)
	}
	return nil
}

// Lock claims the checkout key with SET NX
func (l *RedisLedger) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.redisClient.SetNX(ctx, lockKey(key), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to lock checkout: %w", err)
	}
	return ok, nil
}

// Unlock releases the checkout key
func (l *RedisLedger) Unlock(ctx context.Context, key string) error {
	if err := l.redisClient.Del(ctx, lockKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to unlock checkout: %w", err)
	}
	return nil
}

// Hold overwrites the checkout lock so it outlives the attempt that took it
func (l *RedisLedger) Hold(ctx context.Context, key string, ttl time.Duration) error {
	if err := l.redisClient.Set(ctx, lockKey(key), "held", ttl).Err(); err != nil {
		return fmt.Errorf("failed to hold checkout lock: %w", err)
	}
	return nil
}

// List returns every pending payment, for support tooling
func (l *RedisLedger) List(ctx context.Context) ([]PendingPayment, error) {
	var payments []PendingPayment

	iter := l.redisClient.Scan(ctx, 0, "checkout:payment:*", 100).Iterator()
	for iter.Next(ctx) {
		p, err := l.Get(ctx, iter.Val()[len("checkout:payment:"):])
		if errors.Is(err, ErrPendingPaymentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan pending payments: %w", err)
	}
	return payments, nil
}

func ledgerKey(key string) string {
	return fmt.Sprintf("checkout:payment:%s", key)
}

func lockKey(key string) string {
	return fmt.Sprintf("checkout:lock:%s", key)
}
