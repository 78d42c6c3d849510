package memory

import (
	"context"
	"testing"
)

func TestProfileStoreAccumulatesPoints(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()

	if total, _ := store.Points(ctx, "u1"); total != 0 {
		t.Fatalf("expected zero for unknown user, got %d", total)
	}

	if total, err := store.AddPoints(ctx, "u1", 15); err != nil || total != 15 {
		t.Fatalf("expected 15, got %d (%v)", total, err)
	}
	if total, err := store.AddPoints(ctx, "u1", 10); err != nil || total != 25 {
		t.Fatalf("expected 25, got %d (%v)", total, err)
	}
	if total, _ := store.Points(ctx, "u1"); total != 25 {
		t.Fatalf("expected persisted 25, got %d", total)
	}
}
