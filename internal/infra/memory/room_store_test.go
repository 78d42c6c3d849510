package memory

import (
	"math/rand"
	"testing"
	"time"

	"tahadi-quiz-service/internal/domain"
)

func testStore() *RoomStore {
	return NewRoomStoreWithRand(rand.New(rand.NewSource(5)), time.Now)
}

func TestRoomLifecycle(t *testing.T) {
	store := testStore()

	room, err := store.Create(domain.Room{
		HostID:     "u1",
		SubjectID:  "math",
		MaxPlayers: 2,
	}, "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !domain.ValidRoomCode(room.Code) {
		t.Fatalf("expected four digit code, got %q", room.Code)
	}
	if len(room.Members) != 1 || room.Members[0].PlayerID != "u1" {
		t.Fatalf("expected host as first member, got %+v", room.Members)
	}
	if room.Status != domain.RoomWaiting {
		t.Fatalf("expected waiting room, got %v", room.Status)
	}

	joined, err := store.Join(room.Code, "u2", "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(joined.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(joined.Members))
	}

	if _, err := store.Join(room.Code, "u3", "Carol"); err != domain.ErrRoomFull {
		t.Fatalf("expected room full, got %v", err)
	}

	if err := store.SetStatus(room.Code, domain.RoomPlaying); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if _, err := store.Join(room.Code, "u4", "Dave"); err != domain.ErrRoomNotWaiting {
		t.Fatalf("expected not waiting, got %v", err)
	}

	store.Delete(room.Code)
	if _, ok := store.Get(room.Code); ok {
		t.Fatalf("expected room removed")
	}
}

func TestJoinValidatesCode(t *testing.T) {
	store := testStore()
	if _, err := store.Join("abc", "u1", "Alice"); err != domain.ErrInvalidRoomCode {
		t.Fatalf("expected invalid code, got %v", err)
	}
	if _, err := store.Join("9999", "u1", "Alice"); err != domain.ErrRoomNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRejoinRefreshesName(t *testing.T) {
	store := testStore()
	room, err := store.Create(domain.Room{HostID: "u1", SubjectID: "math", MaxPlayers: 4}, "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Join(room.Code, "u2", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	rejoined, err := store.Join(room.Code, "u2", "Bobby")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if len(rejoined.Members) != 2 || rejoined.Members[1].DisplayName != "Bobby" {
		t.Fatalf("expected rename without duplicate member, got %+v", rejoined.Members)
	}
}
