// Package session reads the logged-in user's context from a key-value store.
// The add-product workflow only needs the warehouse (godown) identifier; the
// rest of the record is carried for logging and authorization headers.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultKey is the store key holding the serialized user record.
const DefaultKey = "user"

// Session is the persisted user record.
type Session struct {
	GodownID string `json:"godownId" validate:"required"`
	UserID   string `json:"userId,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Token    string `json:"token,omitempty"`
}

// Provider exposes the current session to consumers that must not know how
// it is stored.
type Provider interface {
	Current(ctx context.Context) (Session, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context) (Session, error)

// Current calls the underlying function.
func (fn ProviderFunc) Current(ctx context.Context) (Session, error) {
	return fn(ctx)
}

// Static returns a Provider that always yields s.
func Static(s Session) Provider {
	return ProviderFunc(func(context.Context) (Session, error) {
		return s, nil
	})
}

// StoreProvider reads and decodes the session record from a Store.
type StoreProvider struct {
	store    Store
	key      string
	validate *validator.Validate
}

var _ Provider = (*StoreProvider)(nil)

// NewStoreProvider builds a provider over store. An empty key falls back to
// DefaultKey.
func NewStoreProvider(store Store, key string) *StoreProvider {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return &StoreProvider{
		store:    store,
		key:      key,
		validate: validator.New(),
	}
}

// Current loads the record under the configured key. Every failure is
// reported as ErrSessionMissing with the underlying cause attached.
func (p *StoreProvider) Current(ctx context.Context) (Session, error) {
	if p == nil || p.store == nil {
		return Session{}, fmt.Errorf("%w: store is not configured", ErrSessionMissing)
	}

	raw, err := p.store.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, fmt.Errorf("%w: no record under %q", ErrSessionMissing, p.key)
		}
		return Session{}, fmt.Errorf("%w: read %q: %v", ErrSessionMissing, p.key, err)
	}

	s, err := Decode(raw)
	if err != nil {
		return Session{}, err
	}
	if err := p.validate.Struct(s); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionMissing, err)
	}
	return s, nil
}

// Decode parses a serialized record. A JSON null or empty payload counts as
// missing.
func Decode(raw string) (Session, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return Session{}, fmt.Errorf("%w: empty record", ErrSessionMissing)
	}
	var s Session
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return Session{}, fmt.Errorf("%w: decode: %v", ErrSessionMissing, err)
	}
	return s, nil
}

// Encode serializes a record for storage.
func Encode(s Session) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("session: encode: %w", err)
	}
	return string(data), nil
}

// Validate checks a record before it is written to a store.
func Validate(s Session) error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("session: invalid record: %w", err)
	}
	return nil
}
