package publishers

import (
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/prostore-hq/prostore-events-bridge/internal/domain"
)

func TestGCPPubSubPublisherPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()
	if _, err := client.CreateTopic(ctx, "topic-1"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newGCPPubSubPublisher(ctx, PublisherConfig{
		ID:   "gcp",
		Type: TypeGCPPubSub,
		GCP: &GCPPubSubConfig{
			ProjectID: "test-project",
			Topic:     "topic-1",
		},
	}, nil)
	if err != nil {
		t.Fatalf("newGCPPubSubPublisher: %v", err)
	}

	err = pub.Publish(ctx, Event{
		WatcherID: "w1",
		Resource:  domain.Resource{ID: "r1", Kind: domain.KindOrder},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message on emulator, got %d", len(msgs))
	}
	if got := msgs[0].Attributes["watcher_id"]; got != "w1" {
		t.Fatalf("watcher_id attribute = %q", got)
	}
	if !strings.Contains(string(msgs[0].Data), `"watcher_id":"w1"`) {
		t.Fatalf("payload missing watcher_id: %s", msgs[0].Data)
	}
}

func TestNewGCPPubSubPublisherRequiresConfig(t *testing.T) {
	_, err := newGCPPubSubPublisher(context.Background(), PublisherConfig{ID: "gcp", Type: TypeGCPPubSub}, nil)
	if err == nil {
		t.Fatalf("expected error for missing gcp_pubsub block")
	}
}
