// Package store defines the contract shared by the storage adapters backing the portal.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by key-value adapters when a key does not exist.
var ErrNotFound = errors.New("store: key not found")

// Adapter is the minimal lifecycle and health contract for storage adapters.
type Adapter interface {
	HealthCheck(ctx context.Context) error
	Close() error
}
