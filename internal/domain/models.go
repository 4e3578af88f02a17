package domain

import (
	"encoding/json"
	"time"
)

// QuestionType selects the comparison strategy used when grading a question.
type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TrueFalse      QuestionType = "TRUE_FALSE"
	Ordering       QuestionType = "ORDERING"
	ImageText      QuestionType = "IMAGE_TEXT"
)

// Question is one gradable unit of a quiz.
type Question struct {
	ID            string       `json:"id"`
	QuizID        string       `json:"quizId,omitempty"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer Answer       `json:"correctAnswer"`
	MediaURL      string       `json:"mediaUrl,omitempty"`
	MediaType     string       `json:"mediaType,omitempty"` // "image" | "video"
	Points        int          `json:"points"`
	Order         int          `json:"order"`
}

// UnmarshalJSON accepts options and correctAnswer either decoded or as
// JSON-encoded strings.
func (q *Question) UnmarshalJSON(data []byte) error {
	type plain Question
	var aux struct {
		plain
		Options       json.RawMessage `json:"options"`
		CorrectAnswer json.RawMessage `json:"correctAnswer"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*q = Question(aux.plain)
	q.Options = DecodeOptions(aux.Options)
	q.CorrectAnswer = DecodeAnswer(aux.CorrectAnswer)
	return nil
}

// Quiz is a titled, ordered collection of questions.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TimeLimit   int        `json:"timeLimit,omitempty"` // minutes, 0 means no limit
	IsActive    bool       `json:"isActive"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Submission is one participant's completed, scored attempt.
type Submission struct {
	ID          string            `json:"id"`
	QuizID      string            `json:"quizId"`
	QuizTitle   string            `json:"quizTitle,omitempty"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Answers     map[string]Answer `json:"answers"`
	Score       int               `json:"score"`
	TotalPoints int               `json:"totalPoints"`
	Percentage  float64           `json:"percentage"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// SubmissionFilter narrows submission listings. Zero values match everything.
type SubmissionFilter struct {
	QuizID string
	From   time.Time
	To     time.Time
}

// Match reports whether sub passes the filter.
func (f SubmissionFilter) Match(sub Submission) bool {
	if f.QuizID != "" && sub.QuizID != f.QuizID {
		return false
	}
	if !f.From.IsZero() && sub.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && sub.CreatedAt.After(f.To) {
		return false
	}
	return true
}

// Candidate is a flattened view of a tied top scorer entering a draw.
type Candidate struct {
	QuizID      string  `json:"quizId,omitempty"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone,omitempty"`
	Score       int     `json:"score"`
	TotalPoints int     `json:"totalPoints"`
	Percentage  float64 `json:"percentage"`
	Extra       string  `json:"extra,omitempty"` // e.g. day label for weekly draws
}

// DrawWinner is a confirmed draw result.
type DrawWinner struct {
	ID          string    `json:"id"`
	QuizID      string    `json:"quizId"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone,omitempty"`
	Score       int       `json:"score"`
	TotalPoints int       `json:"totalPoints"`
	Percentage  float64   `json:"percentage"`
	CreatedAt   time.Time `json:"createdAt"`
}
