package main

import (
	"context"
	"fmt"

	"github.com/goliatone/go-stockform/internal/config"
	"github.com/goliatone/go-stockform/pkg/session"
)

func nopClose() error { return nil }

// openStore opens the configured session backend. The returned func releases
// it.
func openStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		store, err := session.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nopClose, nil
	case config.BackendSQLite:
		store, err := session.OpenSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendRedis:
		store, err := session.OpenRedisStore(ctx, cfg.Redis.Options())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendMemory:
		return session.NewMemoryStore(nil), nopClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// writeSession validates record and stores it under the configured key.
func writeSession(ctx context.Context, cfg config.SessionConfig, record session.Session) error {
	if err := session.Validate(record); err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	writable, ok := store.(session.WritableStore)
	if !ok {
		return fmt.Errorf("session backend %q is read-only", cfg.Backend)
	}
	raw, err := session.Encode(record)
	if err != nil {
		return err
	}
	key := cfg.Key
	if key == "" {
		key = session.DefaultKey
	}
	return writable.Set(ctx, key, raw)
}
