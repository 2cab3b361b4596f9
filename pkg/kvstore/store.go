// Package kvstore persists opaque values under string keys. Every driver replaces a value
// wholesale on Set; readers never observe a partially written value.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a synchronous key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ObserveFunc receives the outcome of each store operation.
type ObserveFunc func(op string, elapsed time.Duration, err error)

type observed struct {
	Store
	observe ObserveFunc
}

// Observed wraps s so that every operation is reported to fn.
func Observed(s Store, fn ObserveFunc) Store {
	if fn == nil {
		return s
	}
	return &observed{Store: s, observe: fn}
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := o.Store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		o.observe("get", time.Since(start), nil)
	} else {
		o.observe("get", time.Since(start), err)
	}
	return value, err
}

func (o *observed) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := o.Store.Set(ctx, key, value)
	o.observe("set", time.Since(start), err)
	return err
}

func (o *observed) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := o.Store.Delete(ctx, key)
	o.observe("delete", time.Since(start), err)
	return err
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the backend behind s when the driver supports it.
func Ping(ctx context.Context, s Store) error {
	if o, ok := s.(*observed); ok {
		s = o.Store
	}
	if p, ok := s.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
