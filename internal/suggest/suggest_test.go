package suggest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"journalmate/internal/models"
)

func datePtr(t time.Time) *time.Time { return &t }
func intPtr(n int) *int              { return &n }

func TestScore(t *testing.T) {
	ref := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		cand       Candidate
		remaining  int
		wantScore  float64
		wantReason string
	}{
		{
			name:       "low priority nothing else",
			cand:       Candidate{Priority: models.PriorityLow, CreatedAt: ref},
			remaining:  DefaultDayMinutes,
			wantScore:  1,
			wantReason: "priority",
		},
		{
			name:       "high priority",
			cand:       Candidate{Priority: models.PriorityHigh, CreatedAt: ref},
			remaining:  DefaultDayMinutes,
			wantScore:  3,
			wantReason: "priority",
		},
		{
			name: "overdue dominates",
			cand: Candidate{
				Priority:  models.PriorityMedium,
				DueDate:   datePtr(ref.AddDate(0, 0, -2)),
				CreatedAt: ref,
			},
			remaining:  DefaultDayMinutes,
			wantScore:  6,
			wantReason: "overdue",
		},
		{
			name: "due today",
			cand: Candidate{
				Priority:  models.PriorityLow,
				DueDate:   datePtr(ref),
				CreatedAt: ref,
			},
			remaining:  DefaultDayMinutes,
			wantScore:  4,
			wantReason: "due today",
		},
		{
			name: "due soon within three days",
			cand: Candidate{
				Priority:  models.PriorityLow,
				DueDate:   datePtr(ref.AddDate(0, 0, 3)),
				CreatedAt: ref,
			},
			remaining:  DefaultDayMinutes,
			wantScore:  3,
			wantReason: "due soon",
		},
		{
			name: "due this week adds one without changing reason",
			cand: Candidate{
				Priority:  models.PriorityLow,
				DueDate:   datePtr(ref.AddDate(0, 0, 6)),
				CreatedAt: ref,
			},
			remaining:  DefaultDayMinutes,
			wantScore:  2,
			wantReason: "priority",
		},
		{
			name: "scheduled today",
			cand: Candidate{
				Priority:      models.PriorityLow,
				ScheduledDate: datePtr(ref),
				CreatedAt:     ref,
			},
			remaining:  DefaultDayMinutes,
			wantScore:  3,
			wantReason: "scheduled today",
		},
		{
			name: "staleness bump caps at one",
			cand: Candidate{
				Priority:  models.PriorityLow,
				CreatedAt: ref.AddDate(0, 0, -100),
			},
			remaining:  DefaultDayMinutes,
			wantScore:  2,
			wantReason: "priority",
		},
		{
			name: "estimate fits remaining time",
			cand: Candidate{
				Priority:        models.PriorityLow,
				EstimateMinutes: intPtr(60),
				CreatedAt:       ref,
			},
			remaining:  120,
			wantScore:  2,
			wantReason: "priority",
		},
		{
			name: "estimate exceeds remaining time",
			cand: Candidate{
				Priority:        models.PriorityLow,
				EstimateMinutes: intPtr(240),
				CreatedAt:       ref,
			},
			remaining:  120,
			wantScore:  0,
			wantReason: "priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reason := Score(tt.cand, ref, tt.remaining)
			assert.InDelta(t, tt.wantScore, score, 0.001)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestScoreStalenessNeverOutranksDueDate(t *testing.T) {
	ref := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	stale := Candidate{Priority: models.PriorityHigh, CreatedAt: ref.AddDate(-1, 0, 0)}
	dueToday := Candidate{Priority: models.PriorityHigh, DueDate: datePtr(ref), CreatedAt: ref}

	staleScore, _ := Score(stale, ref, DefaultDayMinutes)
	dueScore, _ := Score(dueToday, ref, DefaultDayMinutes)
	assert.Greater(t, dueScore, staleScore)
}

func TestRank(t *testing.T) {
	ref := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cands := []Candidate{
		{TaskID: 1, Priority: models.PriorityLow, CreatedAt: ref},
		{TaskID: 2, Priority: models.PriorityHigh, DueDate: datePtr(ref.AddDate(0, 0, -1)), CreatedAt: ref},
		{TaskID: 3, Priority: models.PriorityMedium, DueDate: datePtr(ref), CreatedAt: ref},
	}

	ranked := Rank(cands, ref, DefaultDayMinutes, DefaultLimit)
	if assert.Len(t, ranked, 3) {
		assert.Equal(t, 2, ranked[0].TaskID)
		assert.Equal(t, "overdue", ranked[0].Reason)
		assert.Equal(t, 3, ranked[1].TaskID)
		assert.Equal(t, 1, ranked[2].TaskID)
	}
}

func TestRankTieBreaksOnOlderCreation(t *testing.T) {
	ref := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cands := []Candidate{
		{TaskID: 1, Priority: models.PriorityMedium, CreatedAt: ref.AddDate(0, 0, -2)},
		{TaskID: 2, Priority: models.PriorityMedium, CreatedAt: ref.AddDate(0, 0, -5)},
	}

	ranked := Rank(cands, ref, DefaultDayMinutes, DefaultLimit)
	assert.Equal(t, 2, ranked[0].TaskID)
	assert.Equal(t, 1, ranked[1].TaskID)
}

func TestRankHonorsLimit(t *testing.T) {
	ref := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	var cands []Candidate
	for i := 1; i <= 15; i++ {
		cands = append(cands, Candidate{TaskID: i, Priority: models.PriorityLow, CreatedAt: ref})
	}

	ranked := Rank(cands, ref, DefaultDayMinutes, DefaultLimit)
	assert.Len(t, ranked, DefaultLimit)
}
