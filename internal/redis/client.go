// Package redis provides Redis client utilities for the snapshot store.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Client wraps go-redis with convenience constructors.
type Client struct {
	*redis.Client
}

// ParseRedisURL parses a redis:// URL and returns options.
func ParseRedisURL(rawURL string) (*redis.Options, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("empty Redis URL")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	opts := &redis.Options{
		Addr: u.Host,
	}

	// rediss:// enables TLS (managed Redis offerings usually require it)
	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{ServerName: u.Hostname()}
	}

	// Default port if not specified
	if u.Port() == "" {
		opts.Addr = u.Hostname() + ":6379"
	}

	// Password from URL
	if u.User != nil {
		if pwd, ok := u.User.Password(); ok {
			opts.Password = pwd
		}
	}

	// Database from path (e.g., redis://localhost/1)
	if len(u.Path) > 1 {
		dbStr := u.Path[1:]
		if db, err := strconv.Atoi(dbStr); err == nil {
			opts.DB = db
		}
	}

	return opts, nil
}

// NewClient creates a Redis client from a URL and verifies connectivity.
func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// NewClientLazy creates a client without testing the connection. The snapshot
// store is best-effort, so a down Redis must not block startup.
func NewClientLazy(redisURL string) (*Client, error) {
	opts, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}

	return &Client{Client: redis.NewClient(opts)}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}
