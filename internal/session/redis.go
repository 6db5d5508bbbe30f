package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "session:"

// RedisStore keeps sessions in Redis with the session TTL as key expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore constructs a session store backed by client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: defaultRedisPrefix}
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	} else if err != nil {
		return Session{}, err
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(s.ID), b, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}
