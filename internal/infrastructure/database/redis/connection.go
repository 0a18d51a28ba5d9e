// internal/infrastructure/database/redis/connection.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/config"
)

const pingTimeout = 3 * time.Second

// Connection owns the Redis client shared by carts, checkout locks, the
// pending payment ledger and rate limiting.
type Connection struct {
	client *redis.Client
}

// clientOptions maps RedisConfig onto go-redis options. Lock and ledger
// commands are short, so timeouts stay tight and a failed command is retried
// a few times before the caller sees it.
func clientOptions(cfg config.RedisConfig, addr string) *redis.Options {
	return &redis.Options{
		Addr:            addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 256 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		PoolTimeout:     3 * time.Second,
	}
}

// NewConnection dials Redis and fails unless the server answers a PING
func NewConnection(cfg *config.Config, logger *logrus.Logger) (*Connection, error) {
	conn := &Connection{client: redis.NewClient(clientOptions(cfg.Redis, cfg.GetRedisAddr()))}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.Health(ctx); err != nil {
		conn.client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithField("addr", cfg.GetRedisAddr()).Info("✅ Redis connection established successfully")
	return conn, nil
}

// Health pings Redis, bounded by the caller's context and pingTimeout
func (c *Connection) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// GetClient returns the underlying client
func (c *Connection) GetClient() *redis.Client {
	return c.client
}

func (c *Connection) Close() error {
	return c.client.Close()
}
