package app

import (
	"context"
	"time"

	"quiz-draw-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizStore writes authored quizzes to the backing store.
type QuizStore interface {
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
}

// QuizCache drops cached quiz snapshots after a write.
type QuizCache interface {
	Invalidate(ctx context.Context, quizID string) error
}

// SubmissionRepository persists scored submissions.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, sub domain.Submission) error
	GetSubmission(ctx context.Context, id string) (domain.Submission, error)
	// ListSubmissions returns matches newest first.
	ListSubmissions(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, error)
	DeleteSubmission(ctx context.Context, id string) error
}

// WinnerRepository persists confirmed draw winners.
type WinnerRepository interface {
	CreateWinner(ctx context.Context, w domain.DrawWinner) error
	// ListWinners returns winners created within [from, to], newest first.
	// Zero bounds are open.
	ListWinners(ctx context.Context, from, to time.Time) ([]domain.DrawWinner, error)
}

// DrawRoomRepository abstracts where live draw rooms are kept (in-memory, Redis, etc).
type DrawRoomRepository interface {
	// GetOrCreate returns the room stored under key, storing room first if none exists.
	GetOrCreate(key string, room *DrawRoom) *DrawRoom
	Get(key string) (*DrawRoom, bool)
	// Refresh records that the room's pool was replaced.
	Refresh(key string, room *DrawRoom)
	Delete(key string)
}
