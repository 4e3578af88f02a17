package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-draw-service/internal/domain"
	"quiz-draw-service/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)

	first, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:quiz-1:snapshot") {
		t.Fatalf("expected snapshot key to be set")
	}
	if ttl := mr.TTL("quiz:quiz-1:snapshot"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("expected ttl with at most 10%% jitter, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	second, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get cached quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if second.Title != first.Title || len(second.Questions) != 2 {
		t.Fatalf("unexpected cached quiz %+v", second)
	}
	got := second.Questions[1].CorrectAnswer
	if got.Kind != domain.AnswerList || len(got.List) != 2 || got.List[0] != "أ" {
		t.Fatalf("expected ordering answer to survive the cache, got %+v", got)
	}
}

func TestQuizRepositoryReloadsAfterInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": sampleQuiz()}),
	}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	_, _ = repo.GetQuiz(ctx, "quiz-1")
	if err := repo.Invalidate(ctx, "quiz-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.GetQuiz(ctx, "quiz-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}

	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetQuiz(ctx, "quiz-1")
	if loader.calls != 3 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

func TestQuizRepositoryMissingQuiz(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewQuizRepository(newClient(mr), memory.NewStaticQuizLoader(nil), time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "nope"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if mr.Exists("quiz:nope:snapshot") {
		t.Fatalf("missing quizzes must not be cached")
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "مسابقة",
		Questions: []domain.Question{
			{
				ID:            "q1",
				Type:          domain.MultipleChoice,
				Text:          "ما عاصمة مصر؟",
				Options:       []string{"القاهرة", "الرياض"},
				CorrectAnswer: domain.TextAnswer("القاهرة"),
				Points:        1,
			},
			{
				ID:            "q2",
				Type:          domain.Ordering,
				Text:          "رتب الحروف",
				Options:       []string{"ب", "أ"},
				CorrectAnswer: domain.ListAnswer("أ", "ب"),
				Points:        2,
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
