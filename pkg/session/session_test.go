package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
)

func TestStoreProvider_Current(t *testing.T) {
	store := NewMemoryStore(map[string]string{
		DefaultKey: `{"godownId":"gd-42","name":"Asha","email":"asha@example.com"}`,
	})

	got, err := NewStoreProvider(store, "").Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	want := Session{GodownID: "gd-42", Name: "Asha", Email: "asha@example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreProvider_Missing(t *testing.T) {
	cases := map[string]map[string]string{
		"no record":       {},
		"null record":     {DefaultKey: "null"},
		"malformed json":  {DefaultKey: "{godownId"},
		"empty godown id": {DefaultKey: `{"godownId":""}`},
		"invalid email":   {DefaultKey: `{"godownId":"gd-1","email":"nope"}`},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			provider := NewStoreProvider(NewMemoryStore(values), DefaultKey)
			_, err := provider.Current(context.Background())
			if !errors.Is(err, ErrSessionMissing) {
				t.Fatalf("expected ErrSessionMissing, got %v", err)
			}
		})
	}
}

func TestStoreProvider_NilStore(t *testing.T) {
	_, err := NewStoreProvider(nil, "").Current(context.Background())
	if !errors.Is(err, ErrSessionMissing) {
		t.Fatalf("expected ErrSessionMissing, got %v", err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state", "storage.json"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if _, err := store.Get(ctx, DefaultKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first write, got %v", err)
	}

	if err := store.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := store.Set(ctx, DefaultKey, `{"godownId":"gd-7"}`); err != nil {
		t.Fatalf("set user: %v", err)
	}

	got, err := NewStoreProvider(store, "").Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got.GodownID != "gd-7" {
		t.Fatalf("expected gd-7, got %q", got.GodownID)
	}
	if theme, _ := store.Get(ctx, "theme"); theme != "dark" {
		t.Fatalf("expected other keys to be preserved, got %q", theme)
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "storage.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.Get(ctx, DefaultKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, DefaultKey, `{"godownId":"gd-1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, DefaultKey, `{"godownId":"gd-2"}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := NewStoreProvider(store, "").Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got.GodownID != "gd-2" {
		t.Fatalf("expected upserted gd-2, got %q", got.GodownID)
	}
}

type stubRedis struct {
	values map[string]string
	err    error
	keys   []string
}

func (s *stubRedis) Get(_ context.Context, key string) *redis.StringCmd {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return redis.NewStringResult("", s.err)
	}
	v, ok := s.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func TestRedisStore_Get(t *testing.T) {
	ctx := context.Background()
	stub := &stubRedis{values: map[string]string{"device:user": `{"godownId":"gd-9"}`}}
	store := &RedisStore{client: stub, prefix: "device:"}

	got, err := NewStoreProvider(store, "").Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got.GodownID != "gd-9" {
		t.Fatalf("expected gd-9, got %q", got.GodownID)
	}
	if diff := cmp.Diff([]string{"device:user"}, stub.keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	stub.err = errors.New("connection refused")
	_, err = NewStoreProvider(store, "").Current(ctx)
	if !errors.Is(err, ErrSessionMissing) {
		t.Fatalf("expected ErrSessionMissing on transport failure, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Session{GodownID: "gd-1", Email: "ops@example.com"}); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
	if err := Validate(Session{Email: "ops@example.com"}); err == nil {
		t.Fatalf("expected missing godown id to fail")
	}
	if err := Validate(Session{GodownID: "gd-1", Email: "not-an-email"}); err == nil {
		t.Fatalf("expected malformed email to fail")
	}
}
