package scoring

import (
	"strings"

	"quiz-draw-service/internal/domain"
)

const (
	NotAnswered = "لم يجب"
	labelTrue   = "صحيح"
	labelFalse  = "خطأ"
)

// QuestionReview is the per-question breakdown shown on result screens.
type QuestionReview struct {
	QuestionID    string              `json:"questionId"`
	Text          string              `json:"text"`
	Type          domain.QuestionType `json:"type"`
	MediaURL      string              `json:"mediaUrl,omitempty"`
	Answered      bool                `json:"answered"`
	Correct       bool                `json:"correct"`
	Points        int                 `json:"points"`
	Awarded       int                 `json:"awarded"`
	UserAnswer    string              `json:"userAnswer"`
	CorrectAnswer string              `json:"correctAnswer"`
}

// Review re-derives correctness question by question, in quiz order.
func Review(questions []domain.Question, answers map[string]domain.Answer) []QuestionReview {
	out := make([]QuestionReview, 0, len(questions))
	for _, q := range questions {
		r := QuestionReview{
			QuestionID:    q.ID,
			Text:          q.Text,
			Type:          q.Type,
			MediaURL:      MediaURL(q.MediaURL),
			Points:        q.Points,
			UserAnswer:    NotAnswered,
			CorrectAnswer: FormatAnswer(q.Type, q.CorrectAnswer),
		}
		if answer, ok := answers[q.ID]; ok {
			r.Answered = true
			r.UserAnswer = FormatAnswer(q.Type, answer)
			r.Correct = IsCorrect(q, answer)
		}
		if r.Correct {
			r.Awarded = q.Points
		}
		out = append(out, r)
	}
	return out
}

// FormatAnswer renders an answer for display.
func FormatAnswer(t domain.QuestionType, a domain.Answer) string {
	if t == domain.TrueFalse {
		if truthy(a) {
			return labelTrue
		}
		return labelFalse
	}
	if a.Kind == domain.AnswerText {
		a = domain.ParseAnswerText(a.Text)
	}
	switch a.Kind {
	case domain.AnswerList:
		return strings.Join(a.List, " → ")
	case domain.AnswerInvalid:
		if s := a.String(); s != "" && s != "null" {
			return s
		}
		return NotAnswered
	}
	return a.String()
}

// MediaURL rewrites legacy /uploads/ paths to the file-serving endpoint.
func MediaURL(url string) string {
	if name, ok := strings.CutPrefix(url, "/uploads/"); ok {
		return "/api/files/" + name
	}
	return url
}
