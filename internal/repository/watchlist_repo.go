package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jaytnw/washwatch/internal/models"
	"github.com/redis/go-redis/v9"
)

// WatchListRepository reads and writes the whole watch-list under one key.
type WatchListRepository interface {
	Load(ctx context.Context) (models.WatchList, error)
	Save(ctx context.Context, list models.WatchList) error
}

type redisWatchListRepo struct {
	client *redis.Client
	key    string
}

func NewRedisWatchListRepo(client *redis.Client, key string) WatchListRepository {
	return &redisWatchListRepo{
		client: client,
		key:    key,
	}
}

func (r *redisWatchListRepo) Load(ctx context.Context) (models.WatchList, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return models.WatchList{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list models.WatchList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode watch-list %s: %w", r.key, err)
	}
	if list == nil {
		list = models.WatchList{}
	}
	return list, nil
}

func (r *redisWatchListRepo) Save(ctx context.Context, list models.WatchList) error {
	if list == nil {
		list = models.WatchList{}
	}
	bytes, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, bytes, 0).Err()
}
