package models

import "time"

// CardState is the scheduling state of a (learner, card) pair.
type CardState string

const (
	StateNew        CardState = "new"
	StateLearning   CardState = "learning"
	StateReview     CardState = "review"
	StateRelearning CardState = "relearning"
)

// Valid reports whether s is one of the four known states.
func (s CardState) Valid() bool {
	switch s {
	case StateNew, StateLearning, StateReview, StateRelearning:
		return true
	}
	return false
}

// InSteps reports whether the card is working through learning steps,
// i.e. its interval is minute-scale.
func (s CardState) InSteps() bool {
	return s == StateLearning || s == StateRelearning
}

// Rating is the learner's self-assessment of a recall attempt.
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// Ratings lists all ratings in ascending recall quality.
var Ratings = []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}

// Valid reports whether r is one of the four known ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	}
	return false
}

// IntervalUnit is the time unit of a ReviewInterval.
type IntervalUnit string

const (
	UnitMinutes IntervalUnit = "minutes"
	UnitDays    IntervalUnit = "days"
)

// ReviewInterval is an interval with an explicit unit. Cards in learning or
// relearning carry minute-scale intervals; review-state cards carry days.
// Keeping the unit next to the value avoids unit confusion when the state
// changes.
type ReviewInterval struct {
	Value int          `json:"value"`
	Unit  IntervalUnit `json:"unit"`
}

// Minutes builds a minute-scale interval.
func Minutes(v int) ReviewInterval { return ReviewInterval{Value: v, Unit: UnitMinutes} }

// Days builds a day-scale interval.
func Days(v int) ReviewInterval { return ReviewInterval{Value: v, Unit: UnitDays} }

// Duration converts the interval to a time.Duration.
func (i ReviewInterval) Duration() time.Duration {
	if i.Unit == UnitMinutes {
		return time.Duration(i.Value) * time.Minute
	}
	return time.Duration(i.Value) * 24 * time.Hour
}

// DueFrom returns the due date implied by the interval starting at t.
func (i ReviewInterval) DueFrom(t time.Time) time.Time {
	return t.Add(i.Duration())
}

// CardProgress is the persisted scheduling state for one (learner, card)
// pair. A pair with no record is implicitly a never-reviewed NEW card.
type CardProgress struct {
	LearnerID      int64          `json:"learner_id"`
	CardID         int64          `json:"card_id"`
	State          CardState      `json:"state"`
	Interval       ReviewInterval `json:"interval"`
	EaseFactor     float64        `json:"ease_factor"`
	LearningStep   int            `json:"learning_step"`
	DueAt          *time.Time     `json:"due_at"`
	ReviewCount    int            `json:"review_count"`
	LapseCount     int            `json:"lapse_count"`
	LastReviewedAt *time.Time     `json:"last_reviewed_at"`
	Version        int64          `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ProgressCounts is a per-state breakdown of a learner's progress records.
// New counts catalog cards with no progress record as well as explicitly
// reset ones.
type ProgressCounts struct {
	New        int `json:"new"`
	Learning   int `json:"learning"`
	Review     int `json:"review"`
	Relearning int `json:"relearning"`
	TotalCards int `json:"total_cards"`
}
