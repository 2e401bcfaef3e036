package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// Result carries the value of a read together with the storage failure, if
// any, that forced it to be empty.
type Result[T any] struct {
	Value T
	Err   error
}

// Degraded reports whether Value is empty because of a storage failure.
func (r Result[T]) Degraded() bool {
	return r.Err != nil
}

// Get returns Value, ignoring the failure cause.
func (r Result[T]) Get() T {
	return r.Value
}

// DatabaseHandle is the part of storage.Database the stores use.
type DatabaseHandle interface {
	DB() *sql.DB
	Path() string
	Release(ctx context.Context, fn func(path string) error) error
}

// read runs fn and converts a failure into a degraded Result, logging it
// with op and kv.
func read[T any](ctx context.Context, log logging.Logger, op string, empty T, fn func() (T, error), kv ...any) Result[T] {
	v, err := fn()
	if err != nil {
		log.Error(ctx, "read failed, returning empty result", append([]any{"op", op, "error", err}, kv...)...)
		return Result[T]{Value: empty, Err: err}
	}
	return Result[T]{Value: v}
}
