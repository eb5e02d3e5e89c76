package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Address     string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// RedisOption mutates RedisOptions.
type RedisOption func(*RedisOptions)

// WithAddress sets the host:port of the server.
func WithAddress(addr string) RedisOption {
	return func(o *RedisOptions) {
		o.Address = addr
	}
}

// WithPassword sets the AUTH password.
func WithPassword(pass string) RedisOption {
	return func(o *RedisOptions) {
		o.Password = pass
	}
}

// WithDB selects the logical database.
func WithDB(db int) RedisOption {
	return func(o *RedisOptions) {
		o.DB = db
	}
}

// WithPrefix namespaces every key.
func WithPrefix(prefix string) RedisOption {
	return func(o *RedisOptions) {
		o.Prefix = prefix
	}
}

// WithDialTimeout bounds connection attempts.
func WithDialTimeout(d time.Duration) RedisOption {
	return func(o *RedisOptions) {
		if d > 0 {
			o.DialTimeout = d
		}
	}
}

// NewRedis connects to Redis and pings it so a bad address fails at startup.
func NewRedis(ctx context.Context, opts ...RedisOption) (*Redis, error) {
	options := &RedisOptions{
		Address:     "localhost:6379",
		Prefix:      "profile:",
		DialTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        options.Address,
		Password:    options.Password,
		DB:          options.DB,
		DialTimeout: options.DialTimeout,
		MaxRetries:  1,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", options.Address, err)
	}

	return &Redis{client: client, prefix: options.Prefix}, nil
}

func (c *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

func (c *Redis) Name() string { return "redis" }

func (c *Redis) Close() error {
	return c.client.Close()
}
