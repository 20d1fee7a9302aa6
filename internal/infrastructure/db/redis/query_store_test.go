package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/core/query"
)

// fakeCmdable keeps values in a map; only the commands the store uses are
// implemented.
type fakeCmdable struct {
	redis.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestQueryStore_RoundTrip(t *testing.T) {
	fake := newFakeCmdable()
	store := NewQueryStore(fake, "dashboard:query", time.Minute)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "users"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	entry := query.Entry{Data: json.RawMessage(`[{"id":1}]`), UpdatedAt: at}
	if err := store.Set(ctx, "users", entry); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := fake.values["dashboard:query:users"]; !ok {
		t.Fatalf("expected prefixed key, have %v", fake.values)
	}
	if fake.ttls["dashboard:query:users"] != time.Minute {
		t.Errorf("ttl = %v", fake.ttls["dashboard:query:users"])
	}

	got, ok, err := store.Get(ctx, "users")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got.Data) != `[{"id":1}]` || !got.UpdatedAt.Equal(at) {
		t.Errorf("unexpected entry %+v", got)
	}

	if err := store.Delete(ctx, "users"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "users"); ok {
		t.Error("expected miss after delete")
	}
}

func TestQueryStore_GetError(t *testing.T) {
	fake := newFakeCmdable()
	fake.getErr = errors.New("connection refused")
	store := NewQueryStore(fake, "", 0)

	if _, _, err := store.Get(context.Background(), "users"); err == nil {
		t.Fatal("expected error")
	}
	if store.ttl != defaultQueryTTL {
		t.Errorf("ttl = %v, want default", store.ttl)
	}
}

func TestQueryStore_ServesQueryClient(t *testing.T) {
	fake := newFakeCmdable()
	c := query.NewClient(NewQueryStore(fake, "p", time.Minute), zerolog.Nop(), query.WithStaleTime(time.Hour))

	calls := 0
	q := query.NewQuery(c, "users", func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"ada"}, nil
	})
	defer q.Close()

	_, _ = q.Load(context.Background())
	got, err := q.Load(context.Background())
	if err != nil || len(got) != 1 || calls != 1 {
		t.Fatalf("expected cached read, calls=%d got=%v err=%v", calls, got, err)
	}

	_ = c.Invalidate(context.Background(), "users")
	if _, ok := fake.values["p:users"]; ok {
		t.Error("invalidation should delete the redis key")
	}
}
