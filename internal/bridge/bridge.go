package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/prostore-hq/prostore-events-bridge/internal/logger"
	"github.com/prostore-hq/prostore-events-bridge/pkg/watchers"
)

// Service coordinates one bridge pass across all configured watches.
type Service struct {
	processor *WatchProcessor
	log       logger.Logger
}

// NewService wires a bridge service. The deduper and log may be nil.
func NewService(reg watchers.PollerRegistry, pub EventPublisher, log logger.Logger, deduper Deduper) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		processor: NewWatchProcessor(reg, NewSummaryEnricher(log), pub, log, deduper),
		log:       log,
	}
}

// Run executes a bridge pass for all configured watches.
func (s *Service) Run(ctx context.Context, watches []watchers.Watch) error {
	if s == nil || s.processor == nil {
		return fmt.Errorf("bridge service is not initialized")
	}

	if len(watches) == 0 {
		return fmt.Errorf("no watches configured")
	}

	errs := s.runAll(ctx, watches)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (s *Service) runAll(ctx context.Context, watches []watchers.Watch) []error {
	errs := make([]error, 0, len(watches))

	for i, w := range watches {
		select {
		case <-ctx.Done():
			return errs
		default:
		}

		if err := s.processor.Process(ctx, w, i); err != nil {
			errs = append(errs, fmt.Errorf("watch %s: %w", w.ID, err))
			s.log.ErrorObj("watch poll failed", "watch_error", map[string]any{
				"watcher_id": w.ID,
				"error":      err.Error(),
			})
		}
	}

	return errs
}
