package scoring

import (
	"encoding/json"
	"math"
	"testing"

	"quiz-draw-service/internal/domain"
)

func TestScoreMultipleChoiceWithMissingAnswer(t *testing.T) {
	questions := []domain.Question{
		{ID: "q1", Type: domain.MultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: domain.TextAnswer("a"), Points: 1},
		{ID: "q2", Type: domain.MultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: domain.TextAnswer("b"), Points: 1},
		{ID: "q3", Type: domain.MultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: domain.TextAnswer("a"), Points: 1},
	}
	answers := map[string]domain.Answer{
		"q1": domain.TextAnswer("a"),
		"q2": domain.TextAnswer("b"),
	}

	res := ScoreSubmission(questions, answers)
	if res.Score != 2 || res.TotalPoints != 3 {
		t.Fatalf("expected 2/3, got %d/%d", res.Score, res.TotalPoints)
	}
	if math.Abs(res.Percentage-66.67) > 0.01 {
		t.Fatalf("expected ~66.67%%, got %v", res.Percentage)
	}
}

func TestScoreTrueFalseCoercion(t *testing.T) {
	q := domain.Question{ID: "q1", Type: domain.TrueFalse, CorrectAnswer: domain.TextAnswer("true"), Points: 2}

	if !IsCorrect(q, domain.BoolAnswer(true)) {
		t.Fatalf("boolean true should match string \"true\"")
	}
	if !IsCorrect(q, domain.TextAnswer("true")) {
		t.Fatalf("string true should match string \"true\"")
	}
	if IsCorrect(q, domain.BoolAnswer(false)) {
		t.Fatalf("false should not match true")
	}

	q.CorrectAnswer = domain.BoolAnswer(false)
	if !IsCorrect(q, domain.TextAnswer("no")) {
		t.Fatalf("any non-true value coerces to false")
	}
}

func TestScoreOrderingIsOrderSensitive(t *testing.T) {
	q := domain.Question{ID: "q1", Type: domain.Ordering, Options: []string{"a", "b", "c"}, CorrectAnswer: domain.ListAnswer("a", "c", "b"), Points: 1}
	if IsCorrect(q, domain.ListAnswer("a", "b", "c")) {
		t.Fatalf("different order must be incorrect")
	}

	q.CorrectAnswer = domain.ListAnswer("a", "b", "c")
	if !IsCorrect(q, domain.ListAnswer("a", "b", "c")) {
		t.Fatalf("same order must be correct")
	}
	if IsCorrect(q, domain.TextAnswer("a,b,c")) {
		t.Fatalf("a string is not an ordering answer")
	}
}

func TestScoreOrderingDoublyEncodedCorrectAnswer(t *testing.T) {
	raw, _ := json.Marshal(`"[\"x\",\"y\"]"`)
	var q domain.Question
	data := []byte(`{"id":"q1","type":"ORDERING","points":1,"correctAnswer":` + string(raw) + `}`)
	if err := json.Unmarshal(data, &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !IsCorrect(q, domain.ListAnswer("x", "y")) {
		t.Fatalf("expected doubly encoded list to be decoded, got %+v", q.CorrectAnswer)
	}
}

func TestScoreImageTextFuzzy(t *testing.T) {
	q := domain.Question{ID: "q1", Type: domain.ImageText, CorrectAnswer: domain.TextAnswer("محمد"), Points: 3}
	if !IsCorrect(q, domain.TextAnswer("محمد ")) {
		t.Fatalf("trailing space should be tolerated")
	}
	if IsCorrect(q, domain.ListAnswer("محمد")) {
		t.Fatalf("list answer must not match text question")
	}
}

func TestScoreZeroQuestions(t *testing.T) {
	res := ScoreSubmission(nil, map[string]domain.Answer{"q1": domain.TextAnswer("a")})
	if res.Score != 0 || res.TotalPoints != 0 || res.Percentage != 0 {
		t.Fatalf("expected zero result, got %+v", res)
	}
}

func TestScoreMalformedQuestionIsIsolated(t *testing.T) {
	var broken domain.Question
	if err := json.Unmarshal([]byte(`{"id":"bad","type":"ORDERING","points":5,"correctAnswer":42}`), &broken); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	questions := []domain.Question{
		broken,
		{ID: "ok", Type: domain.MultipleChoice, CorrectAnswer: domain.TextAnswer("yes"), Points: 5},
	}
	answers := map[string]domain.Answer{
		"bad": domain.ListAnswer("42"),
		"ok":  domain.TextAnswer("yes"),
	}

	res := ScoreSubmission(questions, answers)
	if res.Score != 5 || res.TotalPoints != 10 || res.Percentage != 50 {
		t.Fatalf("expected 5/10 (50%%), got %+v", res)
	}
}

func TestScoreFromJSONPayload(t *testing.T) {
	var quiz domain.Quiz
	payload := `{
		"id": "quiz-1",
		"questions": [
			{"id": "1", "type": "MULTIPLE_CHOICE", "options": "[\"مكة\",\"المدينة\"]", "correctAnswer": "\"مكة\"", "points": 1},
			{"id": "2", "type": "TRUE_FALSE", "correctAnswer": "true", "points": 1},
			{"id": "3", "type": "ORDERING", "options": ["أ","ب","ج"], "correctAnswer": "[\"أ\",\"ب\",\"ج\"]", "points": 2},
			{"id": "4", "type": "IMAGE_TEXT", "correctAnswer": "المسجد الأقصى", "points": 2}
		]
	}`
	if err := json.Unmarshal([]byte(payload), &quiz); err != nil {
		t.Fatalf("unmarshal quiz: %v", err)
	}
	if got := quiz.Questions[0].Options; len(got) != 2 || got[0] != "مكة" {
		t.Fatalf("expected decoded options, got %v", got)
	}

	var answers map[string]domain.Answer
	if err := json.Unmarshal([]byte(`{"1":"مكة","2":true,"3":["أ","ب","ج"],"4":"مسجد الاقصي"}`), &answers); err != nil {
		t.Fatalf("unmarshal answers: %v", err)
	}

	res := ScoreSubmission(quiz.Questions, answers)
	if res.Score != 6 || res.TotalPoints != 6 || res.Percentage != 100 {
		t.Fatalf("expected full marks, got %+v", res)
	}
}
