package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-draw-service/internal/domain"
)

// SubmissionStore is an in-memory implementation of app.SubmissionRepository.
type SubmissionStore struct {
	mu   sync.RWMutex
	subs map[string]domain.Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{subs: make(map[string]domain.Submission)}
}

func (s *SubmissionStore) CreateSubmission(_ context.Context, sub domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = sub
	return nil
}

func (s *SubmissionStore) GetSubmission(_ context.Context, id string) (domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[id]
	if !ok {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *SubmissionStore) ListSubmissions(_ context.Context, filter domain.SubmissionFilter) ([]domain.Submission, error) {
	s.mu.RLock()
	out := make([]domain.Submission, 0, len(s.subs))
	for _, sub := range s.subs {
		if filter.Match(sub) {
			out = append(out, sub)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *SubmissionStore) DeleteSubmission(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return domain.ErrSubmissionNotFound
	}
	delete(s.subs, id)
	return nil
}

func newerFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA < idB
}
