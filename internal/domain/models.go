package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"time"
)

// Domain contains core models shared by watchers, bridge, and publishers.

// Resource kinds surfaced by the admin API watchers.
const (
	KindOrder   = "order"
	KindProduct = "product"
)

// Resource is one store object revision collected by a watch pass. ID changes
// whenever the underlying object is updated, so an update is announced as a
// fresh event.
type Resource struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	ExternalID  string    `json:"external_id"`
	Label       string    `json:"label"`
	AdminPath   string    `json:"admin_path"`
	Summary     string    `json:"summary,omitempty"`
	SummaryHTML string    `json:"-"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewResourceID derives the dedupe identity for a resource revision.
func NewResourceID(kind, externalID string, updatedAt time.Time) string {
	sum := sha1.Sum([]byte(kind + ":" + externalID + ":" + updatedAt.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(sum[:])
}
