package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-draw-service/internal/domain"
)

// WinnerStore keeps confirmed draw winners in memory.
type WinnerStore struct {
	mu      sync.RWMutex
	winners []domain.DrawWinner
}

func NewWinnerStore() *WinnerStore {
	return &WinnerStore{}
}

func (s *WinnerStore) CreateWinner(_ context.Context, w domain.DrawWinner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.winners = append(s.winners, w)
	return nil
}

func (s *WinnerStore) ListWinners(_ context.Context, from, to time.Time) ([]domain.DrawWinner, error) {
	s.mu.RLock()
	var out []domain.DrawWinner
	for _, w := range s.winners {
		if !from.IsZero() && w.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && w.CreatedAt.After(to) {
			continue
		}
		out = append(out, w)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}
