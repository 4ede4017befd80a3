// Package redispkg builds the shared Redis client used for rate limiting,
// readiness checks and post event notifications.
package redispkg

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogapi/internal/middleware"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

const defaultAddr = "redis:6379"

// ParseRedisURL splits a REDIS_URL-like string into its parts. It accepts
// either a plain `host:port` or a `redis://`/`rediss://` URL.
func ParseRedisURL(raw string) (addr, password string, db int, useTLS bool) {
	if raw == "" {
		return defaultAddr, "", 0, false
	}

	addr = raw
	if strings.HasPrefix(raw, "redis://") || strings.HasPrefix(raw, "rediss://") {
		u, err := url.Parse(raw)
		if err != nil {
			return raw, "", 0, false
		}
		addr = u.Host
		useTLS = u.Scheme == "rediss"
		if u.User != nil {
			if pw, ok := u.User.Password(); ok {
				password = pw
			}
		}
		if p := strings.Trim(u.Path, "/"); p != "" {
			if n, err := strconv.Atoi(p); err == nil {
				db = n
			}
		}
	}
	return addr, password, db, useTLS
}

// Options converts raw into client options. Maintenance notifications are
// disabled so servers without the subcommand do not log handshake errors.
func Options(raw string) *redis.Options {
	addr, password, db, useTLS := ParseRedisURL(raw)
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	if useTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	opts.MaintNotificationsConfig = &maintnotifications.Config{Mode: maintnotifications.ModeDisabled}
	return opts
}

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewClient builds a client with the metrics hook installed. It does not
// contact the server.
func NewClient(raw string) *redis.Client {
	client := redis.NewClient(Options(raw))
	client.AddHook(metricsHook{})
	return client
}

// Connect builds a client and pings it. On failure the client is closed and
// the error returned, so callers can continue without Redis.
func Connect(raw string, timeout time.Duration) (*redis.Client, error) {
	client := NewClient(raw)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
	}
	return client, nil
}
