package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"

	"staybook/internal/infra/inbox"
)

type fakeReceipts struct {
	err  error
	keys []string
}

func (f *fakeReceipts) PutReceipt(ctx context.Context, bookingID, kind string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := bookingID + "/" + kind
	f.keys = append(f.keys, key)
	return key, nil
}

const cancelledEvent = `{"specversion":"1.0","id":"evt-1","type":"booking.cancelled.v1","subject":"b-1",
"data":{"BookingID":"b-1","GuestID":"u-1","DaysInAdvance":3,"Rule":"PARTIAL_REFUND","Refund":{"Amount":50000,"Currency":"USD"}}}`

func message(value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{Topic: "booking.events.v1", Value: []byte(value)}
}

func TestHandlerArchivesOncePerEvent(t *testing.T) {
	t.Parallel()

	receipts := &fakeReceipts{}
	h := &Handler{Inbox: inbox.NewMemoryStore(), Receipts: receipts}

	for i := 0; i < 2; i++ {
		if err := h.Handle(context.Background(), message(cancelledEvent)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(receipts.keys) != 1 || receipts.keys[0] != "b-1/booking.cancelled" {
		t.Fatalf("expected one receipt for b-1, got %v", receipts.keys)
	}
}

func TestHandlerRetriesAfterArchiveFailure(t *testing.T) {
	t.Parallel()

	receipts := &fakeReceipts{err: errors.New("bucket unavailable")}
	h := &Handler{Inbox: inbox.NewMemoryStore(), Receipts: receipts}

	if err := h.Handle(context.Background(), message(cancelledEvent)); err == nil {
		t.Fatalf("expected archive error")
	}
	receipts.err = nil
	if err := h.Handle(context.Background(), message(cancelledEvent)); err != nil {
		t.Fatalf("unexpected error on redelivery: %v", err)
	}
	if len(receipts.keys) != 1 {
		t.Fatalf("expected receipt on redelivery, got %v", receipts.keys)
	}
}

func TestHandlerSkipsUnrelatedAndMalformed(t *testing.T) {
	t.Parallel()

	receipts := &fakeReceipts{}
	h := &Handler{Inbox: inbox.NewMemoryStore(), Receipts: receipts}
	for _, raw := range []string{
		`not json`,
		`{"id":"evt-2","type":"property.created.v1","data":{"PropertyID":"p-1"}}`,
		`{"id":"evt-3","type":"booking.confirmed.v1","data":{}}`,
		`{"type":"booking.confirmed.v1","data":{"BookingID":"b-2"}}`,
	} {
		if err := h.Handle(context.Background(), message(raw)); err != nil {
			t.Fatalf("expected %q to be skipped, got %v", raw, err)
		}
	}
	if len(receipts.keys) != 0 {
		t.Fatalf("expected no receipts, got %v", receipts.keys)
	}
}
