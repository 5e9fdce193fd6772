package store

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	fieldData    = "data"
	fieldVersion = "version"
)

// RedisBackend stores each document as a hash of {data, version}.
// Saves use WATCH/MULTI so concurrent writers see ErrConflict.
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (r *RedisBackend) Load(ctx context.Context, key string) ([]byte, int64, error) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, 0, err
	}
	if len(fields) == 0 {
		return nil, 0, ErrNotFound
	}
	version, err := strconv.ParseInt(fields[fieldVersion], 10, 64)
	if err != nil {
		return nil, 0, err
	}
	return []byte(fields[fieldData]), version, nil
}

func (r *RedisBackend) Save(ctx context.Context, key string, data []byte, expectedVersion int64) error {
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, fieldVersion).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != expectedVersion {
			return ErrConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldData, data, fieldVersion, expectedVersion+1)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func (r *RedisBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *RedisBackend) Purge(ctx context.Context) error {
	keys, err := r.Keys(ctx, KeyPrefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
