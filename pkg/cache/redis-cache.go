package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/config"
)

// NewRedisClient connects to a single node (NORMAL) or through sentinels (SENTINEL)
// and pings it before returning.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	var client *redis.Client

	switch strings.ToUpper(cfg.Type) {
	case "", "NORMAL":
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addrs,
			Password: cfg.Password,
		})
	case "SENTINEL":
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			SentinelAddrs: strings.Fields(strings.ReplaceAll(cfg.Addrs, ",", " ")),
			MasterName:    cfg.MasterName,
			Password:      cfg.Password,
			ReadTimeout:   100 * time.Millisecond,
		})
	default:
		return nil, fmt.Errorf("invalid redis type %q, must be NORMAL or SENTINEL", cfg.Type)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	zap.L().Info("Connected to Redis", zap.String("addrs", cfg.Addrs))
	return client, nil
}
