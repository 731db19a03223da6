package bridge

import (
	"context"

	"github.com/prostore-hq/prostore-events-bridge/internal/domain"
	"github.com/prostore-hq/prostore-events-bridge/pkg/publishers"
	"github.com/prostore-hq/prostore-events-bridge/pkg/watchers"
)

// ResourceEnricher fills in derived resource fields (e.g. plain-text
// summaries) before events go out.
type ResourceEnricher interface {
	Enrich(ctx context.Context, w watchers.Watch, resources []domain.Resource) []domain.Resource
}

// EventPublisher delivers enriched store events downstream. It reports how
// many sinks accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which resource revisions were already bridged.
type Deduper interface {
	SeenResource(id string) (bool, error)
	MarkResource(id string) error
}
