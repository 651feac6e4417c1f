package database

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/marks-dashboard/backend/internal/config"
	"github.com/marks-dashboard/backend/internal/model"
)

// RedisStore keeps each record in a hash at "<collection>:<id>" and the ids
// in a set at "<collection>".
type RedisStore struct {
	client     *redis.Client
	collection string
}

func NewRedisStore(ctx context.Context, cfg config.StoreConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return &RedisStore{client: client, collection: collectionName(cfg.Collection)}, nil
}

func (s *RedisStore) key(id string) string {
	return s.collection + ":" + id
}

func (s *RedisStore) Insert(ctx context.Context, rec model.MarkRecord) (string, error) {
	id := uuid.NewString()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key(id), rec.Fields())
		pipe.SAdd(ctx, s.collection, id)
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "insert record")
	}
	return id, nil
}

func (s *RedisStore) All(ctx context.Context) ([]model.MarkRecord, error) {
	ids, err := s.client.SMembers(ctx, s.collection).Result()
	if err != nil {
		return nil, errors.Wrap(err, "list record ids")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "list records")
	}

	records := make([]model.MarkRecord, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		records = append(records, model.FromStrings(ids[i], fields))
	}
	return records, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
