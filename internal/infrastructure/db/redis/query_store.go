package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/employee-dashboard/internal/core/query"
)

const defaultQueryTTL = 10 * time.Minute

// QueryStore keeps query results in Redis so separate dashboard processes
// share one cache. Key format: <prefix>:<query key>
type QueryStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewQueryStore wraps client. A non-positive ttl uses the default.
func NewQueryStore(client redis.Cmdable, prefix string, ttl time.Duration) *QueryStore {
	if ttl <= 0 {
		ttl = defaultQueryTTL
	}
	return &QueryStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *QueryStore) Get(ctx context.Context, key string) (query.Entry, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return query.Entry{}, false, nil
	}
	if err != nil {
		return query.Entry{}, false, fmt.Errorf("query store get %s: %w", key, err)
	}

	var entry query.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return query.Entry{}, false, fmt.Errorf("query store decode %s: %w", key, err)
	}
	return entry, true, nil
}

func (s *QueryStore) Set(ctx context.Context, key string, entry query.Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("query store encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("query store set %s: %w", key, err)
	}
	return nil
}

func (s *QueryStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("query store delete: %w", err)
	}
	return nil
}

func (s *QueryStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}
