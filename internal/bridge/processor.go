package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/prostore-hq/prostore-events-bridge/internal/domain"
	"github.com/prostore-hq/prostore-events-bridge/internal/logger"
	"github.com/prostore-hq/prostore-events-bridge/pkg/publishers"
	"github.com/prostore-hq/prostore-events-bridge/pkg/watchers"
)

// WatchProcessor runs a single watch end to end: poll, dedupe, enrich,
// publish, mark.
type WatchProcessor struct {
	registry  watchers.PollerRegistry
	enricher  ResourceEnricher
	publisher EventPublisher
	log       logger.Logger
	deduper   Deduper
}

// NewWatchProcessor wires a processor. log may be nil; enricher and deduper
// are optional.
func NewWatchProcessor(reg watchers.PollerRegistry, enricher ResourceEnricher, pub EventPublisher, log logger.Logger, deduper Deduper) *WatchProcessor {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &WatchProcessor{
		registry:  reg,
		enricher:  enricher,
		publisher: pub,
		log:       log,
		deduper:   deduper,
	}
}

// Process polls one watch and publishes every fresh resource. pass is the
// position of the watch within the current bridge pass, used for logging.
func (p *WatchProcessor) Process(ctx context.Context, w watchers.Watch, pass int) error {
	if p == nil || p.registry == nil {
		return errors.New("watch processor is not initialized")
	}
	if p.publisher == nil {
		return fmt.Errorf("no publisher configured for watch %s", w.ID)
	}

	poller, err := p.registry.PollerFor(w)
	if err != nil {
		return fmt.Errorf("resolve poller for watch %s: %w", w.ID, err)
	}

	resources, err := poller.Poll(ctx, w)
	if err != nil {
		return fmt.Errorf("poll watch %s: %w", w.ID, err)
	}

	fresh := p.filterFreshResources(w, resources)
	if p.enricher != nil {
		fresh = p.enricher.Enrich(ctx, w, fresh)
	}

	published := 0
	var errs []error
	for _, res := range fresh {
		evt := publishers.NewEvent(w.ID, w.Name, res)
		if _, err := p.publisher.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("publish resource %s: %w", res.ID, err))
			continue
		}
		published++

		// Mark only after a successful publish so failed resources are
		// retried on the next pass.
		if p.deduper != nil {
			if err := p.deduper.MarkResource(res.ID); err != nil {
				p.log.WarnObj("resource mark failed", "dedupe_error", map[string]any{
					"watcher_id":  w.ID,
					"resource_id": res.ID,
					"error":       err.Error(),
				})
			}
		}
	}

	p.log.InfoObj("watch poll completed", "watch_result", map[string]any{
		"watcher_id":       w.ID,
		"pass":             pass,
		"resources_seen":   len(resources),
		"resources_fresh":  len(fresh),
		"events_published": published,
	})

	return errors.Join(errs...)
}

// filterFreshResources drops resources the deduper has already seen. Lookup
// failures keep the resource; a duplicate event beats a dropped one.
func (p *WatchProcessor) filterFreshResources(w watchers.Watch, resources []domain.Resource) []domain.Resource {
	if p.deduper == nil || len(resources) == 0 {
		return resources
	}

	out := make([]domain.Resource, 0, len(resources))
	for _, res := range resources {
		seen, err := p.deduper.SeenResource(res.ID)
		if err != nil {
			p.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"watcher_id":  w.ID,
				"resource_id": res.ID,
				"error":       err.Error(),
			})
			out = append(out, res)
			continue
		}
		if !seen {
			out = append(out, res)
		}
	}
	return out
}
