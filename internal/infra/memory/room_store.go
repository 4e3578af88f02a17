package memory

import (
	"sync"

	"quiz-draw-service/internal/app"
)

// RoomStore is an in-memory implementation of app.DrawRoomRepository.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*app.DrawRoom
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*app.DrawRoom),
	}
}

func (s *RoomStore) GetOrCreate(key string, room *app.DrawRoom) *app.DrawRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.rooms[key]; ok {
		return existing
	}
	s.rooms[key] = room
	return room
}

func (s *RoomStore) Get(key string) (*app.DrawRoom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[key]
	return room, ok
}

func (s *RoomStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, key)
}

// Refresh is a no-op: the map already holds the room itself.
func (s *RoomStore) Refresh(string, *app.DrawRoom) {}
