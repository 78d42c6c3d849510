package redis

import (
	"testing"
	"time"

	"tahadi-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestRoomStoreMirrorsMembership(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewRoomStore(newClient(mr), time.Minute)

	room, err := store.Create(domain.Room{HostID: "u1", SubjectID: "math", MaxPlayers: 4}, "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	key := "room:" + room.Code
	if !mr.Exists(key) {
		t.Fatalf("expected redis mirror for room")
	}
	if got := mr.HGet(key, "member:u1"); got != "Alice" {
		t.Fatalf("expected host mirrored, got %q", got)
	}

	if _, err := store.Join(room.Code, "u2", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if got := mr.HGet(key, "member:u2"); got != "Bob" {
		t.Fatalf("expected joined member mirrored, got %q", got)
	}

	if err := store.SetStatus(room.Code, domain.RoomPlaying); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if got := mr.HGet(key, "status"); got != string(domain.RoomPlaying) {
		t.Fatalf("expected status mirrored, got %q", got)
	}

	store.Delete(room.Code)
	if mr.Exists(key) {
		t.Fatalf("expected redis mirror removed")
	}
	if _, ok := store.Get(room.Code); ok {
		t.Fatalf("expected local room removed")
	}
}
