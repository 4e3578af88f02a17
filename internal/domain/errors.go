package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuiz is returned when quiz content cannot be graded as authored.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrSubmissionNotFound indicates an unknown submission ID.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrInvalidSubmission is returned when required submission fields are missing.
	ErrInvalidSubmission = errors.New("missing required fields")
	// ErrEmptyPool is returned when a draw is requested without candidates.
	ErrEmptyPool = errors.New("draw pool is empty")
	// ErrDrawNotFound is returned when no draw room exists for a pool key.
	ErrDrawNotFound = errors.New("draw not found")
	// ErrNoWinner is returned when confirming before a draw has settled.
	ErrNoWinner = errors.New("draw has no settled winner")
	// ErrAlreadyConfirmed is returned when the settled winner was already confirmed.
	ErrAlreadyConfirmed = errors.New("winner already confirmed")
)
