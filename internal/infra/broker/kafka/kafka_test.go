package kafka

import (
	"testing"

	"github.com/IBM/sarama"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	msg := buildMessage("booking.events.v1", "b-1", []byte(`{}`), map[string]string{"ce-type": "booking.confirmed.v1", "content-type": "application/cloudevents+json"})
	if msg.Topic != "booking.events.v1" {
		t.Fatalf("unexpected topic %q", msg.Topic)
	}
	key, err := msg.Key.Encode()
	if err != nil || string(key) != "b-1" {
		t.Fatalf("expected key b-1, got %q (%v)", key, err)
	}
	if len(msg.Headers) != 2 || string(msg.Headers[0].Key) != "ce-type" || string(msg.Headers[1].Key) != "content-type" {
		t.Fatalf("expected sorted headers, got %+v", msg.Headers)
	}

	unkeyed := buildMessage("t", "", nil, nil)
	if unkeyed.Key != nil {
		t.Fatalf("expected nil key for empty key")
	}
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	msg := &sarama.ConsumerMessage{Headers: []*sarama.RecordHeader{
		{Key: []byte("ce-id"), Value: []byte("evt-1")},
		nil,
	}}
	got := Headers(msg)
	if len(got) != 1 || got["ce-id"] != "evt-1" {
		t.Fatalf("unexpected headers: %v", got)
	}
}
