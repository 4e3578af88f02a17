package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"quiz-draw-service/internal/app"

	"github.com/redis/go-redis/v9"
)

// RoomStore is a Redis-aware implementation of app.DrawRoomRepository.
// Notes:
//   - Rooms live in a local map so the in-process tick fan-out keeps working.
//   - Redis marks which draws are open on this instance, with the candidate
//     count, so operators can see live draws across replicas.
//   - Cross-instance reveals would need a pub/sub projector on top of this.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.RWMutex
	rooms map[string]*app.DrawRoom
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		client: client,
		ttl:    ttl,
		rooms:  make(map[string]*app.DrawRoom),
	}
}

func (s *RoomStore) GetOrCreate(key string, room *app.DrawRoom) *app.DrawRoom {
	s.mu.Lock()
	if existing, ok := s.rooms[key]; ok {
		room = existing
	} else {
		s.rooms[key] = room
	}
	s.mu.Unlock()

	s.touch(key, room)
	return room
}

func (s *RoomStore) Get(key string) (*app.DrawRoom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[key]
	return room, ok
}

// Refresh rewrites the liveness marker after the room's pool changed.
func (s *RoomStore) Refresh(key string, room *app.DrawRoom) {
	s.touch(key, room)
}

func (s *RoomStore) Delete(key string) {
	s.mu.Lock()
	_, ok := s.rooms[key]
	delete(s.rooms, key)
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := s.client.Del(context.Background(), s.liveKey(key)).Err(); err != nil {
		log.Printf("draw room %s: clear liveness: %v", key, err)
	}
}

// touch refreshes the best-effort liveness marker. It must be called
// without s.mu held.
func (s *RoomStore) touch(key string, room *app.DrawRoom) {
	count := len(room.Candidates())
	if err := s.client.Set(context.Background(), s.liveKey(key), count, s.ttl).Err(); err != nil {
		log.Printf("draw room %s: mark live: %v", key, err)
	}
}

func (s *RoomStore) liveKey(key string) string {
	return "draw:room:" + key
}
