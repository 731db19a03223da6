package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Fanout delivers store events to every configured sink.
type Fanout struct {
	sinks []Publisher
}

// NewFanout builds a dispatcher over the provided publishers. Nil entries are
// dropped.
func NewFanout(pubs []Publisher) *Fanout {
	sinks := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		sinks = append(sinks, p)
	}
	return &Fanout{sinks: sinks}
}

// Publish forwards the event to every sink and returns how many accepted it.
// Failures are aggregated so one broken sink does not hide the others.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	delivered := 0
	var errs []error
	for _, p := range f.sinks {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of active sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}
