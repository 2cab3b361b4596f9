package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/gwa-tracker/pkg/kvstore"
)

type autosaveReader interface {
	Autosave(ctx context.Context) (bool, error)
}

// jsonEntry is one JSON document stored under a single key. Writes are skipped while
// autosave is off; reads always go to the store.
type jsonEntry[T any] struct {
	store    kvstore.Store
	key      string
	settings autosaveReader
}

func (e jsonEntry[T]) load(ctx context.Context, dest *T) (bool, error) {
	raw, err := e.store.Get(ctx, e.key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", e.key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", e.key, err)
	}
	return true, nil
}

func (e jsonEntry[T]) save(ctx context.Context, value T) (bool, error) {
	enabled, err := e.enabled(ctx)
	if err != nil || !enabled {
		return false, err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", e.key, err)
	}
	if err := e.store.Set(ctx, e.key, payload); err != nil {
		return false, fmt.Errorf("save %s: %w", e.key, err)
	}
	return true, nil
}

func (e jsonEntry[T]) clear(ctx context.Context) (bool, error) {
	enabled, err := e.enabled(ctx)
	if err != nil || !enabled {
		return false, err
	}
	if err := e.store.Delete(ctx, e.key); err != nil {
		return false, fmt.Errorf("clear %s: %w", e.key, err)
	}
	return true, nil
}

func (e jsonEntry[T]) enabled(ctx context.Context) (bool, error) {
	if e.settings == nil {
		return true, nil
	}
	enabled, err := e.settings.Autosave(ctx)
	if err != nil {
		return false, fmt.Errorf("read autosave: %w", err)
	}
	return enabled, nil
}
