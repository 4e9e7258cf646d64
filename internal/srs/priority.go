package srs

import (
	"time"

	"github.com/reflaxess123/cardflow/internal/models"
)

// Priority weights. Cards working through learning steps dominate the queue,
// then heavily overdue and historically difficult cards.
const (
	overdueWeight   = 10.0
	difficultWeight = 5.0
	lapseWeight     = 2.0
	inStepsBoost    = 100.0
)

// Priority scores a card's urgency for the review queue; higher is more
// urgent. A nil due date scores 0 (a fresh card that has never been
// scheduled).
func Priority(cfg Config, now time.Time, dueAt *time.Time, easeFactor float64, lapseCount int, state models.CardState) float64 {
	if dueAt == nil {
		return 0
	}

	score := float64(DaysOverdue(now, *dueAt))*overdueWeight +
		(cfg.MaxEaseFactor-easeFactor)*difficultWeight +
		float64(lapseCount)*lapseWeight
	if state.InSteps() {
		score += inStepsBoost
	}
	return score
}

// DaysOverdue returns the number of whole days elapsed since due, 0 when due
// lies in the future.
func DaysOverdue(now, due time.Time) int {
	if !now.After(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}
