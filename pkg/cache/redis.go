package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// InvalidationChannel is the pub/sub channel carrying key masks.
const InvalidationChannel = "cache:invalidate"

// RedisStore is the redis-backed cache with pub/sub invalidation
type RedisStore struct {
	client *redis.Client
	pubsub *redis.PubSub
	cancel context.CancelFunc
}

// OpenRedis connects to redis and starts the invalidation subscriber.
func OpenRedis(url, password string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewRedisWithClient(client), nil
}

// NewRedisWithClient wraps an existing client (used for testing).
func NewRedisWithClient(client *redis.Client) *RedisStore {
	subCtx, cancel := context.WithCancel(context.Background())
	s := &RedisStore{
		client: client,
		pubsub: client.Subscribe(subCtx, InvalidationChannel),
		cancel: cancel,
	}
	go s.listenInvalidations(subCtx)
	return s
}

func (s *RedisStore) listenInvalidations(ctx context.Context) {
	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Deletion is idempotent; the publisher hearing its own
			// broadcast is harmless.
			_ = s.DelPattern(ctx, msg.Payload)
		}
	}
}

// Get retrieves a value by key
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

// Set stores a key-value pair with expiration
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// SetNX sets a key only if it does not exist
func (s *RedisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

// Del removes keys
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// DelPattern removes every key matching a glob-style mask.
func (s *RedisStore) DelPattern(ctx context.Context, mask string) error {
	iter := s.client.Scan(ctx, 0, mask, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return s.Del(ctx, keys...)
}

// PublishInvalidation broadcasts a key mask to all subscribed instances.
func (s *RedisStore) PublishInvalidation(ctx context.Context, mask string) error {
	return s.client.Publish(ctx, InvalidationChannel, mask).Err()
}

// Close stops the subscriber and releases the connection.
func (s *RedisStore) Close() error {
	s.cancel()
	_ = s.pubsub.Close()
	return s.client.Close()
}
