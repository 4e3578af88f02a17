package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-draw-service/internal/app"
	"quiz-draw-service/internal/domain"
	"quiz-draw-service/internal/infra/memory"
)

func TestSavedQuizGradesLaterSubmissions(t *testing.T) {
	ctx := context.Background()
	loader := memory.NewStaticQuizLoader(nil)
	repo := memory.NewQuizRepository(loader, time.Hour)
	quizzes := app.NewQuizService(loader, repo, repo)
	submissions := app.NewSubmissionService(repo, memory.NewSubmissionStore(), time.UTC)

	saved, err := quizzes.Save(ctx, domain.Quiz{
		Title: "عواصم",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.MultipleChoice, Options: []string{"القاهرة", "دمشق"}, CorrectAnswer: domain.TextAnswer("دمشق"), Points: 1},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() || saved.Questions[0].QuizID != saved.ID || saved.Questions[0].Order != 1 {
		t.Fatalf("expected id, timestamp and question ownership, got %+v", saved)
	}

	req := app.SubmitRequest{
		QuizID: saved.ID, Name: "سلمى", Email: "s@x", Phone: "011",
		Answers: map[string]domain.Answer{"q1": domain.TextAnswer("القاهرة")},
	}
	first, err := submissions.Submit(ctx, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if first.Score != 0 {
		t.Fatalf("expected wrong answer against first version, got %+v", first)
	}

	// Fix the answer key; the cached snapshot must not survive the write.
	saved.Questions[0].CorrectAnswer = domain.TextAnswer("القاهرة")
	if _, err := quizzes.Save(ctx, saved); err != nil {
		t.Fatalf("update: %v", err)
	}
	second, err := submissions.Submit(ctx, req)
	if err != nil {
		t.Fatalf("submit again: %v", err)
	}
	if second.Score != 1 || second.Percentage != 100 {
		t.Fatalf("expected grading against the saved version, got %+v", second)
	}

	got, err := quizzes.Get(ctx, saved.ID)
	if err != nil || got.Title != "عواصم" {
		t.Fatalf("get: %+v err=%v", got, err)
	}
}

func TestSaveQuizValidation(t *testing.T) {
	loader := memory.NewStaticQuizLoader(nil)
	quizzes := app.NewQuizService(loader, memory.NewQuizRepository(loader, time.Minute), nil)

	cases := map[string]domain.Quiz{
		"missing title": {Questions: []domain.Question{{ID: "q1", Type: domain.TrueFalse}}},
		"missing id":    {Title: "t", Questions: []domain.Question{{Type: domain.TrueFalse}}},
		"duplicate id":  {Title: "t", Questions: []domain.Question{{ID: "q1", Type: domain.TrueFalse}, {ID: "q1", Type: domain.TrueFalse}}},
		"unknown type":  {Title: "t", Questions: []domain.Question{{ID: "q1", Type: "ESSAY"}}},
		"negative":      {Title: "t", Questions: []domain.Question{{ID: "q1", Type: domain.TrueFalse, Points: -1}}},
	}
	for name, quiz := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := quizzes.Save(context.Background(), quiz); !errors.Is(err, domain.ErrInvalidQuiz) {
				t.Fatalf("expected ErrInvalidQuiz, got %v", err)
			}
		})
	}
}
