package storage

import (
	"context"
	"errors"
	"fmt"

	errx "github.com/reine-ishyanami/gemini-bot/internal/core/error"
	logx "github.com/reine-ishyanami/gemini-bot/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore provides the same whole-document contract on a Redis backend.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRedisStore(rdb redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) documentKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func (s *RedisStore) Read(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.documentKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read document from redis")
		return nil, errx.WrapRedis(err)
	}
	return b, nil
}

func (s *RedisStore) Write(ctx context.Context, key string, doc []byte) error {
	if err := s.rdb.Set(ctx, s.documentKey(key), doc, 0).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write document to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
