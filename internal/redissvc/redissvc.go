// Package redissvc stores ban state in Redis so it is shared between API instances.
package redissvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"github.com/rogerio-castellano/catalog-admin/internal/http/ban"
)

const (
	DailyBanLogKey = "ratelimit:banlog:daily"
	strikesPrefix  = "ratelimit:strikes:"
	bansPrefix     = "ratelimit:ban:"
)

type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

// Connect opens a client and pings the server.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return rdb, nil
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

// AddStrike increments the strike counter. The window starts at the first strike.
func (s *RedisService) AddStrike(ctx context.Context, target string, window time.Duration) (int, error) {
	key := strikesPrefix + target
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return int(n), nil
}

func (s *RedisService) Ban(ctx context.Context, target string, d time.Duration) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, bansPrefix+target, 1, d)
		pipe.Del(ctx, strikesPrefix+target)
		return nil
	})
	return err
}

func (s *RedisService) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := s.rdb.Exists(ctx, bansPrefix+target).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisService) LogBan(ctx context.Context, entry ban.BanLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, DailyBanLogKey, data).Err()
}

func (s *RedisService) DrainBanLog(ctx context.Context) ([]ban.BanLogEntry, error) {
	var items *redis.StringSliceCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, DailyBanLogKey, 0, -1)
		pipe.Del(ctx, DailyBanLogKey)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var entries []ban.BanLogEntry
	for _, item := range items.Val() {
		var entry ban.BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

var _ ban.Store = (*RedisService)(nil)
