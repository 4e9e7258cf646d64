package models

import "time"

// ReviewPreview is the schedule a single rating would produce, expressed in
// the unit implied by the resulting state.
type ReviewPreview struct {
	State    CardState      `json:"state"`
	Interval ReviewInterval `json:"interval"`
}

// ReviewResult is the outcome of a submitted review: the updated schedule
// and counters plus a forward-looking preview for all four ratings.
type ReviewResult struct {
	LearnerID      int64                    `json:"learner_id"`
	CardID         int64                    `json:"card_id"`
	State          CardState                `json:"state"`
	Interval       ReviewInterval           `json:"interval"`
	EaseFactor     float64                  `json:"ease_factor"`
	LearningStep   int                      `json:"learning_step"`
	DueAt          time.Time                `json:"due_at"`
	ReviewCount    int                      `json:"review_count"`
	LapseCount     int                      `json:"lapse_count"`
	ReviewedAt     time.Time                `json:"reviewed_at"`
	NextIntervals  map[Rating]ReviewPreview `json:"next_intervals"`
}

// DueCard is a queue candidate annotated with its live progress fields.
type DueCard struct {
	Card
	State               CardState      `json:"state"`
	Interval            ReviewInterval `json:"interval"`
	EaseFactor          float64        `json:"ease_factor"`
	DueAt               *time.Time     `json:"due_at"`
	ReviewCount         int            `json:"review_count"`
	LapseCount          int            `json:"lapse_count"`
	IsOverdue           bool           `json:"is_overdue"`
	DaysSinceLastReview *int           `json:"days_since_last_review"`
	Priority            float64        `json:"priority"`
}
