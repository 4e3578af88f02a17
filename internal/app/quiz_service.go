package app

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"quiz-draw-service/internal/domain"

	"github.com/google/uuid"
)

// QuizService authors quizzes. Saved content replaces the cached snapshot,
// so later submissions are graded against it.
type QuizService struct {
	store   QuizStore
	quizzes QuizRepository
	cache   QuizCache // optional
	now     func() time.Time
	newID   func() string
}

func NewQuizService(store QuizStore, quizzes QuizRepository, cache QuizCache) *QuizService {
	return &QuizService{
		store:   store,
		quizzes: quizzes,
		cache:   cache,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Save validates and upserts quiz. A quiz without an ID gets a new one.
func (s *QuizService) Save(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	if err := validateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	if quiz.ID == "" {
		quiz.ID = s.newID()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = s.now().UTC()
	}
	quiz.Questions = slices.Clone(quiz.Questions)
	for i := range quiz.Questions {
		quiz.Questions[i].QuizID = quiz.ID
		if quiz.Questions[i].Order == 0 {
			quiz.Questions[i].Order = i + 1
		}
	}

	if err := s.store.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("save quiz: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, quiz.ID); err != nil {
			// The stale snapshot expires with its TTL.
			log.Printf("quiz %s: invalidate cache: %v", quiz.ID, err)
		}
	}
	return quiz, nil
}

func (s *QuizService) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

func validateQuiz(quiz domain.Quiz) error {
	if quiz.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidQuiz)
	}
	seen := make(map[string]bool, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", domain.ErrInvalidQuiz, i+1)
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate question id %q", domain.ErrInvalidQuiz, q.ID)
		}
		seen[q.ID] = true
		switch q.Type {
		case domain.MultipleChoice, domain.TrueFalse, domain.Ordering, domain.ImageText:
		default:
			return fmt.Errorf("%w: question %q has unknown type %q", domain.ErrInvalidQuiz, q.ID, q.Type)
		}
		if q.Points < 0 {
			return fmt.Errorf("%w: question %q has negative points", domain.ErrInvalidQuiz, q.ID)
		}
	}
	return nil
}
