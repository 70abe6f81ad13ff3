package marker

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrMarkerNotFound = errors.New("initialization marker not found")
)

type Store interface {
	// Mark idempotently marks the address as initialized. The first write wins:
	// later calls return the original record and false.
	Mark(ctx context.Context, address string) (*Record, bool, error)

	// Get gets the initialization marker for an address
	Get(ctx context.Context, address string) (*Record, error)
}
