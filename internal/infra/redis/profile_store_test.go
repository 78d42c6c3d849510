package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestProfileStorePersistsTotals(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewProfileStore(newClient(mr))
	ctx := context.Background()

	if total, err := store.Points(ctx, "u1"); err != nil || total != 0 {
		t.Fatalf("expected zero for unknown user, got %d (%v)", total, err)
	}
	if total, err := store.AddPoints(ctx, "u1", 15); err != nil || total != 15 {
		t.Fatalf("expected 15, got %d (%v)", total, err)
	}
	if total, err := store.AddPoints(ctx, "u1", 10); err != nil || total != 25 {
		t.Fatalf("expected 25, got %d (%v)", total, err)
	}
	got, err := mr.Get("profile:points:u1")
	if err != nil || got != "25" {
		t.Fatalf("expected redis total 25, got %q (%v)", got, err)
	}
}
