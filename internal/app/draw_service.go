package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"quiz-draw-service/internal/domain"
	"quiz-draw-service/internal/draw"

	"github.com/google/uuid"
)

// DrawSettings configures reveal pacing and weekly grouping.
type DrawSettings struct {
	Pacing    draw.Config
	Scheduler draw.Scheduler
	Location  *time.Location // calendar used to group weekly draws
	Now       func() time.Time
}

// DrawService runs prize draws over tied top scorers.
type DrawService struct {
	submissions SubmissionRepository
	winners     WinnerRepository
	rooms       DrawRoomRepository
	settings    DrawSettings
	newID       func() string
}

func NewDrawService(submissions SubmissionRepository, winners WinnerRepository, rooms DrawRoomRepository, settings DrawSettings) *DrawService {
	if settings.Pacing == (draw.Config{}) {
		settings.Pacing = draw.DefaultConfig()
	}
	if settings.Scheduler == nil {
		settings.Scheduler = draw.Realtime
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &DrawService{
		submissions: submissions,
		winners:     winners,
		rooms:       rooms,
		settings:    settings,
		newID:       uuid.NewString,
	}
}

// QuizPoolKey names the draw room for a single quiz.
func QuizPoolKey(quizID string) string { return "quiz:" + quizID }

// WeekPoolKey names the draw room for the week starting at start.
func WeekPoolKey(start time.Time) string { return "week:" + start.Format(time.DateOnly) }

// QuizCandidates returns the submissions of quizID tied on the top percentage.
func (s *DrawService) QuizCandidates(ctx context.Context, quizID string) ([]domain.Candidate, error) {
	subs, err := s.submissions.ListSubmissions(ctx, domain.SubmissionFilter{QuizID: quizID})
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return draw.TopScorers(subs), nil
}

// WeeklyCandidates returns the daily top scorers of the week offset weeks
// from the current one, with the pool key for that week.
func (s *DrawService) WeeklyCandidates(ctx context.Context, offset int) (string, []domain.Candidate, error) {
	start, end := draw.WeekRange(s.settings.Now(), offset, s.settings.Location)
	subs, err := s.submissions.ListSubmissions(ctx, domain.SubmissionFilter{From: start, To: end})
	if err != nil {
		return "", nil, fmt.Errorf("list submissions: %w", err)
	}
	return WeekPoolKey(start), draw.DailyWinners(subs, s.settings.Location), nil
}

// Open attaches candidates to the room under key, creating it if needed.
// A room whose pool differs is reset onto the new pool.
func (s *DrawService) Open(_ context.Context, key string, candidates []domain.Candidate) (*DrawRoom, error) {
	if len(candidates) == 0 {
		s.Close(key)
		return nil, domain.ErrEmptyPool
	}
	fresh, err := NewDrawRoom(key, candidates,
		draw.WithConfig(s.settings.Pacing),
		draw.WithScheduler(s.settings.Scheduler),
	)
	if err != nil {
		return nil, err
	}
	fresh.release = s.releaseRoom
	room := s.rooms.GetOrCreate(key, fresh)
	if room != fresh {
		changed, err := room.session.SetCandidates(candidates)
		if err != nil {
			return nil, err
		}
		if changed {
			log.Printf("draw %s: pool replaced with %d candidates", key, len(candidates))
			s.rooms.Refresh(key, room)
		}
	}
	return room, nil
}

// Spin starts a reveal cycle; it is ignored while one is running.
func (s *DrawService) Spin(key string) (draw.State, error) {
	room, ok := s.rooms.Get(key)
	if !ok {
		return draw.State{}, domain.ErrDrawNotFound
	}
	room.session.Spin()
	return room.State(), nil
}

// Reset cancels the room's cycle and discards any unconfirmed winner.
func (s *DrawService) Reset(key string) error {
	room, ok := s.rooms.Get(key)
	if !ok {
		return domain.ErrDrawNotFound
	}
	room.session.Reset()
	return nil
}

// Subscribe streams the room's events. The caller must invoke the returned
// cancel function to avoid leaks.
func (s *DrawService) Subscribe(key string) (<-chan DrawEvent, func(), error) {
	room, ok := s.rooms.Get(key)
	if !ok {
		return nil, nil, domain.ErrDrawNotFound
	}
	ch, cancel := room.subscribe()
	return ch, cancel, nil
}

// Confirm makes the settled winner final and records it.
func (s *DrawService) Confirm(ctx context.Context, key string) (domain.DrawWinner, error) {
	room, ok := s.rooms.Get(key)
	if !ok {
		return domain.DrawWinner{}, domain.ErrDrawNotFound
	}

	var record domain.DrawWinner
	c, err := room.session.Confirm(func(c domain.Candidate) error {
		record = domain.DrawWinner{
			ID:          s.newID(),
			QuizID:      c.QuizID,
			Name:        c.Name,
			Phone:       c.Phone,
			Score:       c.Score,
			TotalPoints: c.TotalPoints,
			Percentage:  c.Percentage,
			CreatedAt:   s.settings.Now().UTC(),
		}
		return s.winners.CreateWinner(ctx, record)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNoWinner) && !errors.Is(err, domain.ErrAlreadyConfirmed) {
			log.Printf("draw %s: saving winner failed: %v", key, err)
		}
		return domain.DrawWinner{}, err
	}
	room.broadcast(DrawEvent{Type: EventConfirmed, Winner: &c})
	return record, nil
}

// Close cancels and forgets the room under key.
func (s *DrawService) Close(key string) {
	room, ok := s.rooms.Get(key)
	if !ok {
		return
	}
	room.session.Reset()
	s.rooms.Delete(key)
}

// Release forgets the room when no cycle is running and nobody watches it.
// A room left mid-cycle is released when that cycle settles.
func (s *DrawService) Release(key string) {
	if room, ok := s.rooms.Get(key); ok {
		s.releaseRoom(room)
	}
}

func (s *DrawService) releaseRoom(room *DrawRoom) {
	current, ok := s.rooms.Get(room.key)
	if !ok || current != room || !room.IsIdle() {
		return
	}
	s.rooms.Delete(room.key)
}

// Winners lists recorded winners created within [from, to].
func (s *DrawService) Winners(ctx context.Context, from, to time.Time) ([]domain.DrawWinner, error) {
	return s.winners.ListWinners(ctx, from, to)
}
