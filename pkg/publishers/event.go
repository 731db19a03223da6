package publishers

import (
	"time"

	"github.com/prostore-hq/prostore-events-bridge/internal/domain"
)

// Event represents the store-change payload published downstream.
type Event struct {
	WatcherID   string          `json:"watcher_id"`
	WatcherName string          `json:"watcher_name"`
	Resource    domain.Resource `json:"resource"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent constructs an Event for the given watch + resource.
func NewEvent(watcherID, watcherName string, resource domain.Resource) Event {
	return Event{
		WatcherID:   watcherID,
		WatcherName: watcherName,
		Resource:    resource,
		CollectedAt: time.Now().UTC(),
	}
}
