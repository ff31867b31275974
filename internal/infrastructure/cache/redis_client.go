// Package cache adaptador Redis para la caché del dashboard.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/Inventario-ledger/internal/application/analytics"
)

var _ analytics.Cache = (*RedisClient)(nil)

// ErrCacheMiss la clave no existe en la caché.
var ErrCacheMiss = redis.Nil

// RedisClient implementa analytics.Cache sobre go-redis.
type RedisClient struct {
	rdb *redis.Client
}

// Options conexión a Redis.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient crea el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, opts Options) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return newFromClient(rdb), nil
}

func newFromClient(rdb *redis.Client) *RedisClient {
	return &RedisClient{rdb: rdb}
}

// Get devuelve ErrCacheMiss si la clave no existe.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Close cierra las conexiones.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
