package publishers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Builder constructs a publisher from its configuration.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps publisher types to builders.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry creates an empty publisher registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// DefaultRegistry returns a registry with all built-in publisher types.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(TypeHTTP, newHTTPPublisher)
	reg.Register(TypeSQS, newSQSPublisher)
	reg.Register(TypeSNS, newSNSPublisher)
	reg.Register(TypeGCPPubSub, newGCPPubSubPublisher)
	return reg
}

// Register associates a builder with a publisher type.
func (r *Registry) Register(typ string, builder Builder) {
	if r == nil || builder == nil {
		return
	}

	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// PublisherFor builds the publisher matching the config type.
func (r *Registry) PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if r == nil {
		return nil, errors.New("publisher registry is nil")
	}
	if cfg.Type == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(cfg.Type)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	return builder(ctx, cfg, log)
}

// BuildAll instantiates publishers for configs using the registry, failing on
// the first builder error.
func BuildAll(ctx context.Context, reg *Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	if reg == nil {
		return nil, errors.New("publisher registry is nil")
	}

	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
