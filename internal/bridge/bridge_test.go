package bridge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prostore-hq/prostore-events-bridge/internal/domain"
	"github.com/prostore-hq/prostore-events-bridge/pkg/publishers"
	"github.com/prostore-hq/prostore-events-bridge/pkg/watchers"
)

// fakePoller returns preset resources or an error.
type fakePoller struct {
	id        string
	resources []domain.Resource
	err       error
}

func (f *fakePoller) ID() string { return f.id }
func (f *fakePoller) Poll(_ context.Context, _ watchers.Watch) ([]domain.Resource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resources, nil
}

// fakePollerRegistry maps every watch to a single poller.
type fakePollerRegistry struct {
	poller watchers.Poller
}

func (f *fakePollerRegistry) PollerFor(_ watchers.Watch) (watchers.Poller, error) {
	if f.poller == nil {
		return nil, errors.New("missing poller")
	}
	return f.poller, nil
}

// fakeEnricher passes through or modifies labels.
type fakeEnricher struct {
	prefix string
}

func (f fakeEnricher) Enrich(_ context.Context, _ watchers.Watch, resources []domain.Resource) []domain.Resource {
	out := make([]domain.Resource, len(resources))
	for i, r := range resources {
		r.Label = f.prefix + r.Label
		out[i] = r
	}
	return out
}

// fakePublisher records published events and can inject errors.
type fakePublisher struct {
	mu        sync.Mutex
	events    []publishers.Event
	errOnID   string
	successes int
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if evt.Resource.ID == f.errOnID {
		return 0, errors.New("boom")
	}
	f.successes++
	return 1, nil
}

// fakeDeduper tracks seen IDs.
type fakeDeduper struct {
	mu      sync.Mutex
	seen    map[string]bool
	failID  string
	failErr error
}

func (f *fakeDeduper) SeenResource(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.failID && f.failErr != nil {
		return false, f.failErr
	}
	return f.seen[id], nil
}

func (f *fakeDeduper) MarkResource(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	f.seen[id] = true
	return nil
}

func TestWatchProcessorPublishesFreshResourcesOnly(t *testing.T) {
	w := watchers.Watch{ID: "w1", Name: "Recent orders", Type: watchers.WatchTypeOrders}
	resources := []domain.Resource{
		{ID: "r1", Label: "old"},
		{ID: "r2", Label: "new"},
	}

	deduper := &fakeDeduper{seen: map[string]bool{"r1": true}}
	pub := &fakePublisher{}

	processor := NewWatchProcessor(&fakePollerRegistry{
		poller: &fakePoller{id: "w1", resources: resources},
	}, fakeEnricher{prefix: "enriched-"}, pub, nil, deduper)

	if err := processor.Process(context.Background(), w, 1); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Resource.ID != "r2" || evt.Resource.Label != "enriched-new" {
		t.Fatalf("unexpected resource %+v", evt.Resource)
	}
	if evt.WatcherID != "w1" || evt.WatcherName != "Recent orders" {
		t.Fatalf("event missing watch identity: %+v", evt)
	}
	if !deduper.seen["r2"] {
		t.Fatalf("MarkResource not called for fresh resource")
	}
}

func TestWatchProcessorAggregatesPublishErrors(t *testing.T) {
	w := watchers.Watch{ID: "w1", Name: "Orders"}
	pub := &fakePublisher{errOnID: "bad"}
	deduper := &fakeDeduper{}
	processor := NewWatchProcessor(&fakePollerRegistry{
		poller: &fakePoller{id: "w1", resources: []domain.Resource{{ID: "bad"}}},
	}, nil, pub, nil, deduper)

	err := processor.Process(context.Background(), w, 0)
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Fatalf("expected error mentioning bad resource, got %v", err)
	}
	if deduper.seen["bad"] {
		t.Fatalf("failed resource must not be marked seen")
	}
}

func TestWatchProcessorWrapsPollErrors(t *testing.T) {
	pollErr := errors.New("store unreachable")
	processor := NewWatchProcessor(&fakePollerRegistry{
		poller: &fakePoller{id: "w1", err: pollErr},
	}, nil, &fakePublisher{}, nil, nil)

	err := processor.Process(context.Background(), watchers.Watch{ID: "w1"}, 0)
	if !errors.Is(err, pollErr) {
		t.Fatalf("expected wrapped poll error, got %v", err)
	}
}

func TestServiceRunAllCancelsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(&fakePollerRegistry{poller: &fakePoller{id: "w"}}, nil, nil, nil)
	errs := svc.runAll(ctx, []watchers.Watch{{ID: "w"}})
	if len(errs) != 0 {
		t.Fatalf("expected no errors on cancelled context, got %v", errs)
	}
}

func TestRunErrorsOnEmptyWatches(t *testing.T) {
	svc := NewService(&fakePollerRegistry{poller: &fakePoller{id: "w"}}, nil, nil, nil)
	if err := svc.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error when watch list empty")
	}
}

func TestFilterFreshResourcesHandlesDeduperErrors(t *testing.T) {
	deduper := &fakeDeduper{
		seen:    map[string]bool{"keep": false},
		failID:  "error",
		failErr: errors.New("lookup failed"),
	}
	deduper.seen["skip"] = true
	processor := NewWatchProcessor(&fakePollerRegistry{poller: &fakePoller{id: "w"}}, nil, nil, nil, deduper)
	resources := []domain.Resource{{ID: "keep"}, {ID: "skip"}, {ID: "error"}}

	filtered := processor.filterFreshResources(watchers.Watch{ID: "w"}, resources)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 resources after filter, got %d", len(filtered))
	}
	if filtered[0].ID != "keep" || filtered[1].ID != "error" {
		t.Fatalf("unexpected filter result %#v", filtered)
	}
}
