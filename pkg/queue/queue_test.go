package queue_test

import (
	"testing"
	"time"

	"github.com/yeisme/cloudspace/pkg/queue"
)

func TestWatermillMessageEnvelope(t *testing.T) {
	payload := queue.FileStoredPayload{
		File: queue.FileRef{
			Owner:     "alice@example.com",
			FileID:    "01J8TESTID",
			ObjectKey: "alice@example.com/01J8TESTID-notes.txt",
			Size:      42,
		},
		Source: "confirm",
	}

	msg, err := queue.NewWatermillMessage(
		queue.TopicFileStored, payload,
		queue.WithTraceID("trace-xyz"),
		queue.WithProducer("cloudspace"),
	)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	if msg.UUID == "" {
		t.Error("message UUID empty")
	}

	if got := msg.Metadata.Get("topic"); got != queue.TopicFileStored {
		t.Errorf("metadata topic = %q, want %q", got, queue.TopicFileStored)
	}

	if got := msg.Metadata.Get("trace_id"); got != "trace-xyz" {
		t.Errorf("metadata trace_id = %q", got)
	}

	env, err := queue.ParseWatermillMessage[queue.FileStoredPayload](msg)
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}

	if env.Header.Topic != queue.TopicFileStored {
		t.Errorf("header topic = %q", env.Header.Topic)
	}

	if env.Header.Version != queue.PayloadVersionV1 {
		t.Errorf("header version = %q", env.Header.Version)
	}

	if env.Header.OccurredAt.IsZero() || env.Header.OccurredAt.After(time.Now().UTC().Add(time.Second)) {
		t.Errorf("occurred_at out of range: %v", env.Header.OccurredAt)
	}

	if env.Payload != payload {
		t.Errorf("payload round trip: got %+v, want %+v", env.Payload, payload)
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	raw := []byte(`{"header":{"topic":"cs.file.purged","version":"v2","future":"x"},"payload":{"file":{"owner":"a","file_id":"f","object_key":"k"},"trigger":"sweep","extra":1}}`)

	env, err := queue.Decode[queue.FilePurgedPayload](raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if env.Header.Version != "v2" {
		t.Errorf("version = %q, want v2 passthrough", env.Header.Version)
	}

	if env.Payload.Trigger != "sweep" || env.Payload.File.FileID != "f" {
		t.Errorf("payload = %+v", env.Payload)
	}
}
