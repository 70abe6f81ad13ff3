package config

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue is returned when a source has nothing set for a config
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown is returned when a config is read after Shutdown
	ErrShutdown = errors.New("config: shutdown")
)

// Config is a raw, untyped source of a single configuration value
type Config interface {
	// Get returns the current raw value
	Get(ctx context.Context) (interface{}, error)

	// Shutdown releases the source
	Shutdown()
}

// Value is a typed view over a Config that falls back to a default
type Value[T any] interface {
	// Get returns the current value, or the last known value on error
	Get(ctx context.Context) T

	// GetSafe is Get with errors reading or converting the source
	GetSafe(ctx context.Context) (T, error)

	Shutdown()
}

type (
	Bool   = Value[bool]
	String = Value[string]
)
