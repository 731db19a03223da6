package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writePublishersFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	raw := `
publishers:
  - id: hook1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: hook2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	reg, err := LoadRegistry(writePublishersFile(t, "publishers.yaml", raw))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "hook2" {
		t.Fatalf("expected only hook2 enabled, got %#v", enabled)
	}
}

func TestLoadRegistryAllSinkTypes(t *testing.T) {
	raw := `
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com/events
      method: put
      headers:
        Authorization: Bearer token
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.eu-central-1.amazonaws.com/123/events
      region: eu-central-1
      access_key_id: AKIA123
      secret_access_key: secret
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-central-1:123:events
      region: eu-central-1
  - id: gcp
    type: gcp_pubsub
    gcp_pubsub:
      project_id: acme-prod
      topic: store-events
`
	reg, err := LoadRegistry(writePublishersFile(t, "publishers.yaml", raw))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 4 {
		t.Fatalf("expected 4 publishers, got %d", got)
	}

	hook, ok := reg.ByID("hook")
	if !ok || hook.HTTP == nil {
		t.Fatalf("hook publisher missing: %#v", hook)
	}
	if hook.HTTP.Method != "PUT" {
		t.Fatalf("method should be uppercased, got %s", hook.HTTP.Method)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("timeout should default, got %d", hook.HTTP.TimeoutSeconds)
	}

	queue, ok := reg.ByID("queue")
	if !ok || queue.SQS == nil || queue.SQS.AccessKeyID != "AKIA123" {
		t.Fatalf("queue publisher missing credentials: %#v", queue)
	}

	topic, ok := reg.ByID("topic")
	if !ok || topic.SNS == nil || topic.SNS.TopicARN != "arn:aws:sns:eu-central-1:123:events" {
		t.Fatalf("topic publisher wrong: %#v", topic)
	}

	gcp, ok := reg.ByID("gcp")
	if !ok || gcp.GCP == nil || gcp.GCP.ProjectID != "acme-prod" {
		t.Fatalf("gcp publisher wrong: %#v", gcp)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	raw := `
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com
  - id: hook
    type: http
    http:
      url: https://example.com/2
`
	if _, err := LoadRegistry(writePublishersFile(t, "publishers.yaml", raw)); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
	}{
		{name: "missing http block", cfg: PublisherConfig{ID: "h1", Type: TypeHTTP}},
		{name: "sqs missing region", cfg: PublisherConfig{
			ID: "q1", Type: TypeSQS,
			SQS: &SQSPublisherConfig{QueueURL: "https://example.com/queue"},
		}},
		{name: "sns missing topic arn", cfg: PublisherConfig{
			ID: "t1", Type: TypeSNS,
			SNS: &SNSPublisherConfig{Region: "eu-central-1"},
		}},
		{name: "gcp missing project", cfg: PublisherConfig{
			ID: "g1", Type: TypeGCPPubSub,
			GCP: &GCPPubSubConfig{Topic: "store-events"},
		}},
		{name: "missing id", cfg: PublisherConfig{Type: TypeHTTP}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validatePublisherConfig(tc.cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
