package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"quiz-draw-service/internal/domain"
	"quiz-draw-service/internal/scoring"

	"github.com/google/uuid"
)

// SubmitRequest is a participant's completed attempt as received from clients.
type SubmitRequest struct {
	QuizID  string                   `json:"quizId"`
	Name    string                   `json:"name"`
	Email   string                   `json:"email"`
	Phone   string                   `json:"phone"`
	Answers map[string]domain.Answer `json:"answers"`
}

// SubmissionReview pairs a stored submission with its per-question breakdown.
type SubmissionReview struct {
	Submission domain.Submission        `json:"submission"`
	Questions  []scoring.QuestionReview `json:"questions"`
}

// SubmissionService grades and stores quiz attempts.
type SubmissionService struct {
	quizzes     QuizRepository
	submissions SubmissionRepository
	loc         *time.Location // calendar used for exported dates
	now         func() time.Time
	newID       func() string
}

func NewSubmissionService(quizzes QuizRepository, submissions SubmissionRepository, loc *time.Location) *SubmissionService {
	if loc == nil {
		loc = time.UTC
	}
	return &SubmissionService{
		quizzes:     quizzes,
		submissions: submissions,
		loc:         loc,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// NewSubmissionServiceWithClock is test-only for deterministic timestamps.
func NewSubmissionServiceWithClock(quizzes QuizRepository, submissions SubmissionRepository, loc *time.Location, now func() time.Time) *SubmissionService {
	s := NewSubmissionService(quizzes, submissions, loc)
	s.now = now
	return s
}

// Submit scores req against the current quiz snapshot and stores the result.
// The stored score is never recomputed afterwards.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (domain.Submission, error) {
	if req.QuizID == "" || req.Name == "" || req.Email == "" || req.Phone == "" || req.Answers == nil {
		return domain.Submission{}, domain.ErrInvalidSubmission
	}

	quiz, err := s.quizzes.GetQuiz(ctx, req.QuizID)
	if err != nil {
		return domain.Submission{}, err
	}

	res := scoring.ScoreSubmission(quiz.Questions, req.Answers)
	sub := domain.Submission{
		ID:          s.newID(),
		QuizID:      quiz.ID,
		QuizTitle:   quiz.Title,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Answers:     req.Answers,
		Score:       res.Score,
		TotalPoints: res.TotalPoints,
		Percentage:  res.Percentage,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.submissions.CreateSubmission(ctx, sub); err != nil {
		return domain.Submission{}, fmt.Errorf("store submission: %w", err)
	}
	return sub, nil
}

func (s *SubmissionService) Get(ctx context.Context, id string) (domain.Submission, error) {
	return s.submissions.GetSubmission(ctx, id)
}

func (s *SubmissionService) List(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, error) {
	return s.submissions.ListSubmissions(ctx, filter)
}

func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	return s.submissions.DeleteSubmission(ctx, id)
}

// Review re-derives per-question correctness for display.
func (s *SubmissionService) Review(ctx context.Context, id string) (SubmissionReview, error) {
	sub, err := s.submissions.GetSubmission(ctx, id)
	if err != nil {
		return SubmissionReview{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, sub.QuizID)
	if err != nil {
		return SubmissionReview{}, err
	}
	return SubmissionReview{
		Submission: sub,
		Questions:  scoring.Review(quiz.Questions, sub.Answers),
	}, nil
}

var csvHeader = []string{"الاسم", "البريد الإلكتروني", "رقم الموبايل", "الاختبار", "النتيجة", "النسبة", "التاريخ"}

// ExportCSV writes matching submissions as a spreadsheet-friendly CSV with a
// UTF-8 byte order mark.
func (s *SubmissionService) ExportCSV(ctx context.Context, filter domain.SubmissionFilter, w io.Writer) error {
	subs, err := s.submissions.ListSubmissions(ctx, filter)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, sub := range subs {
		row := []string{
			sub.Name,
			sub.Email,
			sub.Phone,
			sub.QuizTitle,
			fmt.Sprintf("%d/%d", sub.Score, sub.TotalPoints),
			strconv.Itoa(int(math.Round(sub.Percentage))) + "%",
			sub.CreatedAt.In(s.loc).Format(time.DateOnly),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
