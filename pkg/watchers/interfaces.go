package watchers

import (
	"context"

	"github.com/prostore-hq/prostore-events-bridge/internal/domain"
	"github.com/prostore-hq/prostore-events-bridge/pkg/adminapi"
)

// Poller retrieves the current page of resources for a watch definition.
// Concrete implementations live in watch-type files (e.g., orders.go).
type Poller interface {
	ID() string
	Poll(ctx context.Context, w Watch) ([]domain.Resource, error)
}

// PollerRegistry resolves the poller implementation for a given watch config.
type PollerRegistry interface {
	PollerFor(w Watch) (Poller, error)
}

// StoreClient is the slice of the admin API client pollers depend on, so
// tests can substitute a fake without standing up a server.
type StoreClient interface {
	Get(ctx context.Context, endpoint string, opts *adminapi.RequestOptions, out any) error
}
