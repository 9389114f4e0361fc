package db

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
	pkgerrors "github.com/pkg/errors"

	"badminton-eval-go/config"
)

// RedisService keeps the blob under a single string key in Redis.
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context // Base context
	Key    string
}

// NewRedisService creates a new RedisService instance
func NewRedisService(client *redis.Client, key string) *RedisService {
	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
		Key:    key,
	}
}

func (s *RedisService) Load() ([]byte, error) {
	data, err := s.Client.Get(s.Ctx, s.Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrBlobNotFound
		}
		return nil, pkgerrors.Wrapf(err, "failed to get %s from Redis", s.Key)
	}
	return data, nil
}

func (s *RedisService) Save(data []byte) error {
	if err := s.Client.Set(s.Ctx, s.Key, data, 0).Err(); err != nil {
		return pkgerrors.Wrapf(err, "failed to set %s in Redis", s.Key)
	}
	return nil
}

func (s *RedisService) Delete() error {
	if err := s.Client.Del(s.Ctx, s.Key).Err(); err != nil {
		return pkgerrors.Wrapf(err, "failed to delete %s from Redis", s.Key)
	}
	return nil
}

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, pkgerrors.Wrapf(err, "could not connect to Redis at %s", cfg.Addr)
	}
	return rdb, nil
}
