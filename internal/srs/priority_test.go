package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/srs"
)

func TestPriority_NilDueDateScoresZero(t *testing.T) {
	cfg := srs.DefaultConfig()
	now := time.Now().UTC()

	score := srs.Priority(cfg, now, nil, 1.3, 50, models.StateNew)
	assert.Equal(t, 0.0, score, "unscheduled cards carry no urgency signal")
}

func TestPriority_Formula(t *testing.T) {
	cfg := srs.DefaultConfig()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		due        time.Time
		easeFactor float64
		lapseCount int
		state      models.CardState
		want       float64
	}{
		{
			name:       "due exactly now",
			due:        now,
			easeFactor: 2.5,
			state:      models.StateReview,
			want:       0,
		},
		{
			name:       "three days overdue",
			due:        now.Add(-3 * 24 * time.Hour),
			easeFactor: 2.5,
			state:      models.StateReview,
			want:       30,
		},
		{
			name:       "difficult card at minimum ease",
			due:        now,
			easeFactor: 1.3,
			state:      models.StateReview,
			want:       6, // (2.5 - 1.3) * 5
		},
		{
			name:       "lapses contribute",
			due:        now,
			easeFactor: 2.5,
			lapseCount: 4,
			state:      models.StateReview,
			want:       8,
		},
		{
			name:       "learning cards get the in-steps boost",
			due:        now,
			easeFactor: 2.5,
			state:      models.StateLearning,
			want:       100,
		},
		{
			name:       "relearning combines all terms",
			due:        now.Add(-2 * 24 * time.Hour),
			easeFactor: 2.0,
			lapseCount: 3,
			state:      models.StateRelearning,
			want:       20 + 2.5 + 6 + 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := srs.Priority(cfg, now, &tt.due, tt.easeFactor, tt.lapseCount, tt.state)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPriority_Monotonicity(t *testing.T) {
	cfg := srs.DefaultConfig()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("more overdue never scores lower", func(t *testing.T) {
		prev := -1.0
		for days := 0; days <= 30; days++ {
			due := now.Add(-time.Duration(days) * 24 * time.Hour)
			score := srs.Priority(cfg, now, &due, 2.5, 0, models.StateReview)
			assert.GreaterOrEqual(t, score, prev, "days=%d", days)
			prev = score
		}
	})

	t.Run("lower ease never scores lower", func(t *testing.T) {
		due := now
		prev := -1.0
		for ease := cfg.MaxEaseFactor; ease >= cfg.MinEaseFactor; ease -= 0.1 {
			score := srs.Priority(cfg, now, &due, ease, 0, models.StateReview)
			assert.GreaterOrEqual(t, score, prev, "ease=%.2f", ease)
			prev = score
		}
	})

	t.Run("more lapses never score lower", func(t *testing.T) {
		due := now
		prev := -1.0
		for lapses := 0; lapses <= 20; lapses++ {
			score := srs.Priority(cfg, now, &due, 2.5, lapses, models.StateReview)
			assert.GreaterOrEqual(t, score, prev, "lapses=%d", lapses)
			prev = score
		}
	})
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"due in the future", now.Add(time.Hour), 0},
		{"due exactly now", now, 0},
		{"a few hours late counts as zero whole days", now.Add(-6 * time.Hour), 0},
		{"one full day late", now.Add(-24 * time.Hour), 1},
		{"just under two days", now.Add(-47 * time.Hour), 1},
		{"eight days late", now.Add(-8 * 24 * time.Hour), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, srs.DaysOverdue(now, tt.due))
		})
	}
}
