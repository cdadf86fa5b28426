package session

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/opryshko/bakehouse/internal/domain/cart"
)

var _ Store = (*RedisStore)(nil)

// RedisStore implements Store on Redis. Sessions are plain user-ID values,
// carts are JSON blobs; both carry TTLs so abandoned sessions age out. Cart
// TTLs get a small random jitter to avoid synchronized expiry.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
	cartTTL    time.Duration
}

// NewRedisStore creates a RedisStore with the given TTLs.
func NewRedisStore(client *redis.Client, sessionTTL, cartTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		sessionTTL: sessionTTL,
		cartTTL:    cartTTL,
	}
}

func sessionKey(key string) string { return "session:" + key }
func cartKey(key string) string    { return "cart:" + key }

func (s *RedisStore) SaveSession(ctx context.Context, key string, userID int64) error {
	err := s.client.Set(ctx, sessionKey(key), strconv.FormatInt(userID, 10), s.sessionTTL).Err()
	if err != nil {
		return errors.Wrap(err, "redis set session")
	}
	return nil
}

func (s *RedisStore) LookupSession(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, errors.Wrap(err, "redis get session")
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse session user id")
	}
	return userID, nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, sessionKey(key), cartKey(key)).Err(); err != nil {
		return errors.Wrap(err, "redis delete session")
	}
	return nil
}

func (s *RedisStore) SaveCart(ctx context.Context, key string, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}

	jitter := time.Duration(rand.Intn(300)) * time.Second
	if err := s.client.Set(ctx, cartKey(key), data, s.cartTTL+jitter).Err(); err != nil {
		return errors.Wrap(err, "redis set cart")
	}
	return nil
}

func (s *RedisStore) LoadCart(ctx context.Context, key string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get cart")
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "unmarshal cart")
	}
	return &c, nil
}
