package draw

import (
	"fmt"
	"sort"
	"time"

	"quiz-draw-service/internal/domain"
)

var dayNames = [...]string{"الأحد", "الإثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"}

// TopScorers returns the submissions tied on the highest percentage, in
// input order.
func TopScorers(subs []domain.Submission) []domain.Candidate {
	top := topSubmissions(subs)
	if len(top) == 0 {
		return nil
	}
	out := make([]domain.Candidate, 0, len(top))
	for _, s := range top {
		out = append(out, candidateFrom(s))
	}
	return out
}

// WeekRange returns the Sunday-to-Saturday week offset weeks away from the
// week containing now, in loc. end is the last nanosecond of Saturday.
func WeekRange(now time.Time, offset int, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	start = time.Date(y, m, d-int(local.Weekday())+offset*7, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// DailyWinners groups submissions by calendar day in loc and returns, for
// every day, the submissions tied on that day's highest percentage. Days
// are ascending; each candidate is labelled with its day and quiz title.
func DailyWinners(subs []domain.Submission, loc *time.Location) []domain.Candidate {
	if loc == nil {
		loc = time.UTC
	}
	byDay := make(map[string][]domain.Submission)
	var keys []string
	for _, s := range subs {
		key := s.CreatedAt.In(loc).Format(time.DateOnly)
		if _, ok := byDay[key]; !ok {
			keys = append(keys, key)
		}
		byDay[key] = append(byDay[key], s)
	}
	sort.Strings(keys)

	var out []domain.Candidate
	for _, key := range keys {
		day := byDay[key][0].CreatedAt.In(loc)
		label := fmt.Sprintf("%s %d/%d", dayNames[day.Weekday()], day.Day(), int(day.Month()))
		for _, s := range topSubmissions(byDay[key]) {
			c := candidateFrom(s)
			c.Extra = label
			if s.QuizTitle != "" {
				c.Extra += " - " + s.QuizTitle
			}
			out = append(out, c)
		}
	}
	return out
}

func topSubmissions(subs []domain.Submission) []domain.Submission {
	if len(subs) == 0 {
		return nil
	}
	best := subs[0].Percentage
	for _, s := range subs[1:] {
		best = max(best, s.Percentage)
	}
	var out []domain.Submission
	for _, s := range subs {
		if s.Percentage == best {
			out = append(out, s)
		}
	}
	return out
}

func candidateFrom(s domain.Submission) domain.Candidate {
	return domain.Candidate{
		QuizID:      s.QuizID,
		Name:        s.Name,
		Phone:       s.Phone,
		Score:       s.Score,
		TotalPoints: s.TotalPoints,
		Percentage:  s.Percentage,
	}
}
