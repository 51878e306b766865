package kv

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the backing medium cannot serve a request.
var ErrUnavailable = errors.New("kv medium unavailable")

// ErrClosed is returned by operations on a closed medium.
var ErrClosed = errors.New("kv medium closed")

// Medium is a durable key/value store with explicit absence.
//
// Get returns ok=false with a nil error when key is unset. Remove of an unset key is
// not an error.
type Medium interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
