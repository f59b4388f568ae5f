package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const holderKeyPrefix = "holder:"

// Client wraps redis for the two concerns this service has: the holder
// balance cache used as the balance-lookup fallback, and dedup marks used by
// the mint tracker.
type Client struct {
	rdb *redis.Client
}

// New connects to redis and verifies the connection.
func New(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// HolderBalance returns the cached gating token balance for a wallet.
// The second return is false when no entry exists.
func (c *Client) HolderBalance(ctx context.Context, wallet string) (float64, bool, error) {
	val, err := c.rdb.Get(ctx, holderKeyPrefix+wallet).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get holder balance: %w", err)
	}
	balance, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse holder balance %q: %w", val, err)
	}
	return balance, true, nil
}

// SetHolderBalance stores a wallet's balance with a TTL.
func (c *Client) SetHolderBalance(ctx context.Context, wallet string, balance float64, ttl time.Duration) error {
	return c.rdb.Set(ctx, holderKeyPrefix+wallet, strconv.FormatFloat(balance, 'f', -1, 64), ttl).Err()
}

// MarkOnce sets key if it is not already set and reports whether this call
// claimed it. The TTL bounds the key space so the mark store never grows
// without limit.
func (c *Client) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return ok, nil
}
