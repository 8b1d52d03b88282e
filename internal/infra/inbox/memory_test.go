package inbox

import (
	"context"
	"testing"
)

func TestMemoryStoreSeen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	if seen, _ := s.Seen(ctx, "evt-1"); seen {
		t.Fatalf("expected first delivery to be new")
	}
	if seen, _ := s.Seen(ctx, "evt-1"); !seen {
		t.Fatalf("expected redelivery to be detected")
	}
	_ = s.Forget(ctx, "evt-1")
	if seen, _ := s.Seen(ctx, "evt-1"); seen {
		t.Fatalf("expected forgotten event to be processed again")
	}
}
