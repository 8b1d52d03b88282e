package memory

import (
	"context"
	"sync"

	appoutbox "staybook/internal/app/outbox"
)

// Sink receives records when the outbox is flushed.
type Sink func(ctx context.Context, record appoutbox.EventRecord) error

// Outbox keeps events in memory until flushed to an optional sink.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
	sink    Sink
}

func NewOutbox(sink Sink) *Outbox {
	return &Outbox{sink: sink}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

// Flush hands pending records to the sink in insertion order. Records the sink
// rejects stay pending for the next flush.
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sink == nil {
		o.records = nil
		return nil
	}
	for i, rec := range o.records {
		if err := o.sink(ctx, rec); err != nil {
			o.records = append([]appoutbox.EventRecord(nil), o.records[i:]...)
			return err
		}
	}
	o.records = nil
	return nil
}

// Pending returns a copy of the records not yet flushed.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]appoutbox.EventRecord, len(o.records))
	copy(out, o.records)
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)
