package redisad

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Sessions stores session attributes as a Redis hash with a sliding TTL.
type Sessions struct {
	c   *redis.Client
	ttl time.Duration
}

func NewSessions(c *redis.Client, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Sessions{c: c, ttl: ttl}
}

func sessionKey(id string) string { return "hp:session:" + id }

func (s *Sessions) TTL() time.Duration { return s.ttl }

// Create starts a session holding attrs and returns its id.
func (s *Sessions) Create(ctx context.Context, attrs map[string]string) (string, error) {
	id := uuid.NewString()
	key := sessionKey(id)
	vals := make(map[string]any, len(attrs)+1)
	vals["_created"] = time.Now().UTC().Format(time.RFC3339)
	for k, v := range attrs {
		vals[k] = v
	}
	_, err := s.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, vals)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the attributes of a live session and extends its TTL.
// An unknown or expired id yields a nil map and no error.
func (s *Sessions) Get(ctx context.Context, id string) (map[string]string, error) {
	if id == "" {
		return nil, nil
	}
	key := sessionKey(id)
	attrs, err := s.c.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	if err := s.c.Expire(ctx, key, s.ttl).Err(); err != nil {
		return nil, err
	}
	delete(attrs, "_created")
	return attrs, nil
}

func (s *Sessions) Put(ctx context.Context, id, key, value string) error {
	k := sessionKey(id)
	_, err := s.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, key, value)
		p.Expire(ctx, k, s.ttl)
		return nil
	})
	return err
}

func (s *Sessions) Destroy(ctx context.Context, id string) error {
	return s.c.Del(ctx, sessionKey(id)).Err()
}
