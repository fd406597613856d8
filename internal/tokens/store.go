package tokens

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tableside/restaurant-pos/internal/config"
	"github.com/tableside/restaurant-pos/internal/httperr"
)

// RefreshStore keeps opaque refresh tokens with a TTL. Consume is
// get-and-delete so every refresh token is single use.
type RefreshStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Consume(ctx context.Context, token string) (uint, error)
}

const refreshKeyPrefix = "refresh:"

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(cfg *config.Config) *RedisStore {
	return &RedisStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
	}
}

func (s *RedisStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, refreshKeyPrefix+token, userID, ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, token string) (uint, error) {
	key := refreshKeyPrefix + token

	val, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, httperr.Auth("invalid_refresh_token")
	}
	if err != nil {
		return 0, err
	}

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, httperr.Auth("invalid_refresh_token")
	}
	return uint(userID), nil
}

var _ RefreshStore = (*RedisStore)(nil)
