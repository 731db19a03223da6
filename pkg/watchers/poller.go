package watchers

import (
	"fmt"
	"strings"
	"sync"
)

// pollerRegistry implements PollerRegistry.
type pollerRegistry struct {
	pollersByID   map[string]Poller
	pollersByType map[string]Poller
	mu            sync.RWMutex
}

// NewPollerRegistry builds a registry for the provided poller implementations keyed by watch id.
func NewPollerRegistry(pollers ...Poller) PollerRegistry {
	return NewTypePollerRegistry(nil, pollers...)
}

// NewTypePollerRegistry builds a registry with optional type-based pollers and watch-specific pollers.
func NewTypePollerRegistry(typePollers map[string]Poller, pollers ...Poller) PollerRegistry {
	reg := &pollerRegistry{
		pollersByID:   make(map[string]Poller),
		pollersByType: make(map[string]Poller),
	}

	for _, p := range pollers {
		reg.registerIDPoller(p)
	}
	for typ, p := range typePollers {
		reg.registerTypePoller(typ, p)
	}

	return reg
}

// registerIDPoller registers a poller by its watch ID.
func (r *pollerRegistry) registerIDPoller(p Poller) {
	if p == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(p.ID()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.pollersByID[key] = p
	r.mu.Unlock()
}

// registerTypePoller registers a poller by watch type.
func (r *pollerRegistry) registerTypePoller(typ string, p Poller) {
	if p == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.pollersByType[key] = p
	r.mu.Unlock()
}

// PollerFor selects the poller for the given watch based on its id or type.
func (r *pollerRegistry) PollerFor(w Watch) (Poller, error) {
	if r == nil {
		return nil, fmt.Errorf("poller registry is nil")
	}
	if strings.TrimSpace(w.ID) == "" {
		return nil, fmt.Errorf("watch id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idKey := strings.ToLower(strings.TrimSpace(w.ID))
	if p, ok := r.pollersByID[idKey]; ok {
		return p, nil
	}

	typeKey := strings.ToLower(strings.TrimSpace(w.Type))
	if typeKey != "" {
		if p, ok := r.pollersByType[typeKey]; ok {
			return p, nil
		}
	}

	return nil, fmt.Errorf("no poller registered for watch %q (type %q)", w.ID, w.Type)
}

// DefaultPollerRegistry wires up the known watch types against the given
// admin API client.
func DefaultPollerRegistry(client StoreClient) PollerRegistry {
	typePollers := map[string]Poller{
		WatchTypeOrders:   NewOrdersPoller(client),
		WatchTypeProducts: NewProductsPoller(client),
	}

	return NewTypePollerRegistry(typePollers)
}
