package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides the local DB/cache abstraction used to dedupe
// already-announced resource revisions.

// Store tracks published resource IDs.
type Store interface {
	Close() error
	SeenResource(id string) (bool, error)
	MarkResource(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ResourceTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultResourceTTL     = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ResourceTTL <= 0 {
		opts.ResourceTTL = defaultResourceTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) SeenResource(string) (bool, error) { return false, nil }
func (noopStore) MarkResource(string) error         { return nil }
