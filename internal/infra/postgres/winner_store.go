package postgres

import (
	"context"
	"fmt"
	"time"

	"quiz-draw-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// WinnerStore records confirmed draw winners.
type WinnerStore struct {
	pool *pgxpool.Pool
}

func NewWinnerStore(pool *pgxpool.Pool) *WinnerStore {
	return &WinnerStore{pool: pool}
}

func (s *WinnerStore) CreateWinner(ctx context.Context, w domain.DrawWinner) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO draw_winners (id, quiz_id, name, phone, score, total_points, percentage, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.QuizID, w.Name, w.Phone, w.Score, w.TotalPoints, w.Percentage, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert draw winner: %w", err)
	}
	return nil
}

// ListWinners returns winners created in [from, to], newest first. Zero
// bounds are open.
func (s *WinnerStore) ListWinners(ctx context.Context, from, to time.Time) ([]domain.DrawWinner, error) {
	var lower, upper interface{}
	if !from.IsZero() {
		lower = from
	}
	if !to.IsZero() {
		upper = to
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, quiz_id, name, phone, score, total_points, percentage, created_at
		 FROM draw_winners
		 WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		   AND ($2::timestamptz IS NULL OR created_at <= $2)
		 ORDER BY created_at DESC, id DESC`,
		lower, upper)
	if err != nil {
		return nil, fmt.Errorf("list draw winners: %w", err)
	}
	defer rows.Close()

	var out []domain.DrawWinner
	for rows.Next() {
		var w domain.DrawWinner
		if err := rows.Scan(&w.ID, &w.QuizID, &w.Name, &w.Phone, &w.Score, &w.TotalPoints, &w.Percentage, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan draw winner: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
