package redis

import (
	"context"
	"sync"
	"time"

	"tahadi-quiz-service/internal/domain"
	"tahadi-quiz-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
)

// RoomStore is a Redis-aware implementation of app.RoomStore.
// Notes:
//   - The in-process store stays authoritative so the round controller keeps
//     working against immediately consistent membership.
//   - Redis holds a per-room hash (member -> display name) plus status, with
//     TTL, so operators can inspect live rooms and a future presence service
//     can take over the mirror.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.Mutex
	local  *memory.RoomStore
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		client: client,
		ttl:    ttl,
		local:  memory.NewRoomStore(),
	}
}

func (s *RoomStore) Create(room domain.Room, hostDisplayName string) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created, err := s.local.Create(room, hostDisplayName)
	if err != nil {
		return domain.Room{}, err
	}
	s.mirror(created)
	return created, nil
}

func (s *RoomStore) Get(code string) (domain.Room, bool) {
	return s.local.Get(code)
}

func (s *RoomStore) Join(code, playerID, displayName string) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.local.Join(code, playerID, displayName)
	if err != nil {
		return domain.Room{}, err
	}
	s.mirror(room)
	return room, nil
}

func (s *RoomStore) SetStatus(code string, status domain.RoomStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.local.SetStatus(code, status); err != nil {
		return err
	}
	_ = s.client.HSet(context.Background(), s.key(code), "status", string(status)).Err()
	return nil
}

func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local.Delete(code)
	_ = s.client.Del(context.Background(), s.key(code)).Err()
}

// mirror writes the membership hash best-effort; room flow never depends on it.
func (s *RoomStore) mirror(room domain.Room) {
	ctx := context.Background()
	key := s.key(room.Code)
	fields := map[string]interface{}{"status": string(room.Status)}
	for _, m := range room.Members {
		fields["member:"+m.PlayerID] = m.DisplayName
	}
	_ = s.client.HSet(ctx, key, fields).Err()
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, key, s.ttl).Err()
	}
}

func (s *RoomStore) key(code string) string {
	return "room:" + code
}
