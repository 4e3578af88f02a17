package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"quiz-draw-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SubmissionStore persists scored submissions; answers are kept as JSONB.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

const submissionColumns = `id, quiz_id, quiz_title, name, email, phone, answers, score, total_points, percentage, created_at`

func (s *SubmissionStore) CreateSubmission(ctx context.Context, sub domain.Submission) error {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO submissions (`+submissionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		sub.ID, sub.QuizID, sub.QuizTitle, sub.Name, sub.Email, sub.Phone,
		answers, sub.Score, sub.TotalPoints, sub.Percentage, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id=$1`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return domain.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

func (s *SubmissionStore) ListSubmissions(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, error) {
	query, args := submissionQuery(filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SubmissionStore) DeleteSubmission(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM submissions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func submissionQuery(filter domain.SubmissionFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, cond+"$"+strconv.Itoa(len(args)))
	}
	if filter.QuizID != "" {
		add("quiz_id = ", filter.QuizID)
	}
	if !filter.From.IsZero() {
		add("created_at >= ", filter.From)
	}
	if !filter.To.IsZero() {
		add("created_at <= ", filter.To)
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return query + ` ORDER BY created_at DESC, id DESC`, args
}

func scanSubmission(row pgx.Row) (domain.Submission, error) {
	var (
		sub     domain.Submission
		answers []byte
	)
	err := row.Scan(&sub.ID, &sub.QuizID, &sub.QuizTitle, &sub.Name, &sub.Email, &sub.Phone,
		&answers, &sub.Score, &sub.TotalPoints, &sub.Percentage, &sub.CreatedAt)
	if err != nil {
		return domain.Submission{}, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &sub.Answers); err != nil {
			return domain.Submission{}, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	return sub, nil
}
