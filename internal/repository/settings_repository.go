package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/noah-isme/gwa-tracker/pkg/kvstore"
)

// SettingsRepository stores the autosave toggle. The toggle itself is always persisted.
type SettingsRepository struct {
	store    kvstore.Store
	key      string
	fallback bool

	mu       sync.RWMutex
	autosave *bool
}

// NewSettingsRepository creates a repository; fallback applies until a value is stored.
func NewSettingsRepository(store kvstore.Store, key string, fallback bool) *SettingsRepository {
	return &SettingsRepository{store: store, key: key, fallback: fallback}
}

// Autosave returns the current toggle, reading the store once and caching the result.
func (r *SettingsRepository) Autosave(ctx context.Context) (bool, error) {
	r.mu.RLock()
	cached := r.autosave
	r.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	value := r.fallback
	raw, err := r.store.Get(ctx, r.key)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
	case err != nil:
		return false, fmt.Errorf("load %s: %w", r.key, err)
	default:
		if err := json.Unmarshal(raw, &value); err != nil {
			return false, fmt.Errorf("decode %s: %w", r.key, err)
		}
	}

	r.mu.Lock()
	r.autosave = &value
	r.mu.Unlock()
	return value, nil
}

// SetAutosave persists the toggle.
func (r *SettingsRepository) SetAutosave(ctx context.Context, enabled bool) error {
	payload, err := json.Marshal(enabled)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.key, err)
	}
	if err := r.store.Set(ctx, r.key, payload); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	r.mu.Lock()
	r.autosave = &enabled
	r.mu.Unlock()
	return nil
}
