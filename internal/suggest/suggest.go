// Package suggest ranks a user's open tasks into a per-day suggestion list.
// The score is a plain weighted sum; the weights are the product decision,
// not the machinery.
package suggest

import (
	"sort"
	"time"

	"journalmate/internal/models"
)

// DefaultDayMinutes is the planning capacity assumed for a day when scoring
// estimate fit.
const DefaultDayMinutes = 8 * 60

// DefaultLimit caps how many suggestions are kept per user per day.
const DefaultLimit = 10

type Candidate struct {
	TaskID          int
	Title           string
	Priority        models.Priority
	DueDate         *time.Time
	ScheduledDate   *time.Time
	EstimateMinutes *int
	CreatedAt       time.Time
}

type Ranked struct {
	TaskID int
	Score  float64
	Reason string
}

func priorityWeight(p models.Priority) float64 {
	switch p {
	case models.PriorityHigh:
		return 3
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 1
	}
	return 1
}

func daysUntil(ref time.Time, d time.Time) int {
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(refDay).Hours() / 24)
}

// Score computes the heuristic score and the dominant reason for one task.
func Score(c Candidate, ref time.Time, remainingMinutes int) (float64, string) {
	score := priorityWeight(c.Priority)
	reason := "priority"

	if c.ScheduledDate != nil && daysUntil(ref, *c.ScheduledDate) == 0 {
		score += 2
		reason = "scheduled today"
	}

	if c.DueDate != nil {
		switch d := daysUntil(ref, *c.DueDate); {
		case d < 0:
			score += 4
			reason = "overdue"
		case d == 0:
			score += 3
			reason = "due today"
		case d <= 3:
			score += 2
			reason = "due soon"
		case d <= 7:
			score += 1
		}
	}

	// Tasks sitting untouched for weeks float up slowly, capped so staleness
	// never outranks a due date.
	if age := daysUntil(c.CreatedAt, ref); age > 14 {
		bump := float64(age-14) / 14
		if bump > 1 {
			bump = 1
		}
		score += bump
	}

	if c.EstimateMinutes != nil {
		if *c.EstimateMinutes <= remainingMinutes {
			score += 1
		} else {
			score -= 1
		}
	}

	return score, reason
}

// Rank scores all candidates and returns the top ones, highest score first.
// Ties break on older creation time so long-waiting tasks win.
func Rank(cands []Candidate, ref time.Time, remainingMinutes, limit int) []Ranked {
	type scored struct {
		Ranked
		createdAt time.Time
	}
	out := make([]scored, 0, len(cands))
	for _, c := range cands {
		s, reason := Score(c, ref, remainingMinutes)
		out = append(out, scored{Ranked{TaskID: c.TaskID, Score: s, Reason: reason}, c.CreatedAt})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].createdAt.Before(out[j].createdAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	ranked := make([]Ranked, len(out))
	for i, s := range out {
		ranked[i] = s.Ranked
	}
	return ranked
}
