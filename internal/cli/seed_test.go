package cli

import (
	"context"
	"testing"
	"time"

	"quiz-draw-service/internal/app"
	"quiz-draw-service/internal/infra/memory"
)

func TestSeedQuizzesIsRepeatable(t *testing.T) {
	ctx := context.Background()
	loader := memory.NewStaticQuizLoader(nil)
	repo := memory.NewQuizRepository(loader, time.Hour)
	quizzes := app.NewQuizService(loader, repo, repo)

	for i := 0; i < 2; i++ {
		if err := seedQuizzes(ctx, quizzes); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}
	for id, want := range sampleQuizzes() {
		got, err := quizzes.Get(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if got.Title != want.Title || len(got.Questions) != len(want.Questions) {
			t.Fatalf("quiz %s: got %+v", id, got)
		}
	}
}
