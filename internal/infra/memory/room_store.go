package memory

import (
	"math/rand"
	"sync"
	"time"

	"tahadi-quiz-service/internal/domain"
)

const codeRetries = 20

// RoomStore is an in-memory implementation of app.RoomStore.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
	rnd   *rand.Rand
	now   func() time.Time
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*domain.Room),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

// NewRoomStoreWithRand is test-only for deterministic room codes.
func NewRoomStoreWithRand(rnd *rand.Rand, now func() time.Time) *RoomStore {
	return &RoomStore{rooms: make(map[string]*domain.Room), rnd: rnd, now: now}
}

// Create assigns a free four digit code and registers the host as the first
// member of a waiting room.
func (s *RoomStore) Create(room domain.Room, hostDisplayName string) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := ""
	for i := 0; i < codeRetries; i++ {
		candidate := domain.GenerateRoomCode(s.rnd)
		if _, taken := s.rooms[candidate]; !taken {
			code = candidate
			break
		}
	}
	if code == "" {
		return domain.Room{}, domain.ErrInvalidRoomCode
	}

	room.Code = code
	room.Status = domain.RoomWaiting
	room.Members = []domain.RoomMember{{
		PlayerID:    room.HostID,
		DisplayName: hostDisplayName,
		JoinedAt:    s.now(),
	}}
	s.rooms[code] = &room
	return room, nil
}

func (s *RoomStore) Get(code string) (domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return domain.Room{}, false
	}
	return cloneRoom(room), true
}

// Join adds a member if the room is still waiting and has capacity. Joining
// again with the same player ID refreshes the display name.
func (s *RoomStore) Join(code, playerID, displayName string) (domain.Room, error) {
	if !domain.ValidRoomCode(code) {
		return domain.Room{}, domain.ErrInvalidRoomCode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if room.Status != domain.RoomWaiting {
		return domain.Room{}, domain.ErrRoomNotWaiting
	}
	for i := range room.Members {
		if room.Members[i].PlayerID == playerID {
			room.Members[i].DisplayName = displayName
			return cloneRoom(room), nil
		}
	}
	if room.MaxPlayers > 0 && len(room.Members) >= room.MaxPlayers {
		return domain.Room{}, domain.ErrRoomFull
	}
	room.Members = append(room.Members, domain.RoomMember{
		PlayerID:    playerID,
		DisplayName: displayName,
		JoinedAt:    s.now(),
	})
	return cloneRoom(room), nil
}

func (s *RoomStore) SetStatus(code string, status domain.RoomStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return domain.ErrRoomNotFound
	}
	room.Status = status
	return nil
}

func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

func cloneRoom(room *domain.Room) domain.Room {
	out := *room
	out.Members = make([]domain.RoomMember, len(room.Members))
	copy(out.Members, room.Members)
	return out
}
