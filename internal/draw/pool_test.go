package draw

import (
	"testing"
	"time"

	"quiz-draw-service/internal/domain"
)

func TestTopScorers(t *testing.T) {
	subs := []domain.Submission{
		{Name: "a", Percentage: 80},
		{Name: "b", Percentage: 100, Phone: "0500"},
		{Name: "c", Percentage: 60},
		{Name: "d", Percentage: 100},
	}
	got := TopScorers(subs)
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "d" {
		t.Fatalf("unexpected top scorers %+v", got)
	}
	if got[0].Phone != "0500" || got[0].Extra != "" {
		t.Fatalf("unexpected candidate fields %+v", got[0])
	}
	if TopScorers(nil) != nil {
		t.Fatalf("expected nil for no submissions")
	}
}

func TestWeekRange(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC) // Wednesday

	start, end := WeekRange(now, 0, time.UTC)
	if !start.Equal(time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2026, 10, 17, 23, 59, 59, 999999999, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}

	start, _ = WeekRange(now, -1, nil)
	if !start.Equal(time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected previous week start %v", start)
	}
}

func TestDailyWinners(t *testing.T) {
	sunday := time.Date(2026, 10, 11, 9, 0, 0, 0, time.UTC)
	monday := sunday.AddDate(0, 0, 1)
	subs := []domain.Submission{
		{Name: "m1", QuizID: "q2", QuizTitle: "اختبار 2", Percentage: 90, CreatedAt: monday},
		{Name: "s1", QuizID: "q1", QuizTitle: "اختبار 1", Percentage: 70, CreatedAt: sunday},
		{Name: "s2", QuizID: "q1", QuizTitle: "اختبار 1", Percentage: 100, CreatedAt: sunday.Add(time.Hour)},
		{Name: "s3", QuizID: "q1", QuizTitle: "اختبار 1", Percentage: 100, CreatedAt: sunday.Add(2 * time.Hour)},
	}

	got := DailyWinners(subs, time.UTC)
	if len(got) != 3 {
		t.Fatalf("expected 3 daily winners, got %+v", got)
	}
	if got[0].Name != "s2" || got[1].Name != "s3" || got[2].Name != "m1" {
		t.Fatalf("unexpected order %+v", got)
	}
	if got[0].Extra != "الأحد 11/10 - اختبار 1" {
		t.Fatalf("unexpected label %q", got[0].Extra)
	}
	if got[2].Extra != "الإثنين 12/10 - اختبار 2" || got[2].QuizID != "q2" {
		t.Fatalf("unexpected monday candidate %+v", got[2])
	}
}
