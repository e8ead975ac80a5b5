package cache

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"

	model "taskflow.com/taskflow/pkg/models"
)

const DefaultKeyPrefix = "taskflow:streak:"

type RedisStreakCache struct {
	client rueidis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStreakCache(client rueidis.Client, prefix string, ttl time.Duration) *RedisStreakCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return &RedisStreakCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisStreakCache) key(teamID string) string {
	return r.prefix + teamID
}

func (r *RedisStreakCache) Get(ctx context.Context, teamID string) (*model.TeamStreak, error) {
	cmd := r.client.B().Get().Key(r.key(teamID)).Build()
	raw, err := r.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var streak model.TeamStreak
	if err := sonic.UnmarshalString(raw, &streak); err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *RedisStreakCache) Set(ctx context.Context, streak *model.TeamStreak) error {
	raw, err := sonic.MarshalString(streak)
	if err != nil {
		return err
	}
	cmd := r.client.B().Setex().Key(r.key(streak.TeamID)).Seconds(int64(r.ttl / time.Second)).Value(raw).Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisStreakCache) Invalidate(ctx context.Context, teamID string) error {
	cmd := r.client.B().Del().Key(r.key(teamID)).Build()
	return r.client.Do(ctx, cmd).Error()
}
