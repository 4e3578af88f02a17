package scoring

import (
	"slices"

	"quiz-draw-service/internal/domain"
)

// Result is the outcome of grading one submission.
type Result struct {
	Score       int     `json:"score"`
	TotalPoints int     `json:"totalPoints"`
	Percentage  float64 `json:"percentage"`
}

// ScoreSubmission grades answers against questions. Every question counts
// toward TotalPoints; a question adds to Score only when answered correctly.
// Malformed question data makes that question unmatchable, never an error.
func ScoreSubmission(questions []domain.Question, answers map[string]domain.Answer) Result {
	var res Result
	for _, q := range questions {
		res.TotalPoints += q.Points
		answer, ok := answers[q.ID]
		if ok && IsCorrect(q, answer) {
			res.Score += q.Points
		}
	}
	res.Percentage = percentage(res.Score, res.TotalPoints)
	return res
}

// IsCorrect applies the comparison strategy of q.Type to answer.
func IsCorrect(q domain.Question, answer domain.Answer) bool {
	correct := q.CorrectAnswer
	switch q.Type {
	case domain.TrueFalse:
		return truthy(answer) == truthy(correct)
	case domain.Ordering:
		if correct.Kind == domain.AnswerText {
			correct = domain.ParseAnswerText(correct.Text)
		}
		return answer.Kind == domain.AnswerList &&
			correct.Kind == domain.AnswerList &&
			slices.Equal(answer.List, correct.List)
	case domain.ImageText:
		user, ok1 := textOf(answer)
		want, ok2 := textOf(correct)
		return ok1 && ok2 && FuzzyMatch(user, want)
	default:
		return answer.Kind == domain.AnswerText &&
			correct.Kind == domain.AnswerText &&
			answer.Text == correct.Text
	}
}

// truthy is true only for boolean true or the string "true".
func truthy(a domain.Answer) bool {
	switch a.Kind {
	case domain.AnswerBool:
		return a.Bool
	case domain.AnswerText:
		return a.Text == "true"
	}
	return false
}

func textOf(a domain.Answer) (string, bool) {
	switch a.Kind {
	case domain.AnswerText, domain.AnswerBool:
		return a.String(), true
	}
	return "", false
}

func percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
