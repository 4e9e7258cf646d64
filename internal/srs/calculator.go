package srs

import (
	"errors"
	"math"

	"github.com/reflaxess123/cardflow/internal/models"
)

var (
	// ErrUnknownState means the persisted card state is not one of the four
	// known states. This is a data integrity problem, not a caller mistake.
	ErrUnknownState = errors.New("unknown card state")

	// ErrUnknownRating means the caller supplied a rating outside
	// again/hard/good/easy.
	ErrUnknownRating = errors.New("unknown rating")
)

// latenessCredit is the fraction of overdue days added to the interval of a
// review-state card before the multiplier is applied.
const latenessCredit = 0.25

// Snapshot is the scheduling state a review is computed from.
type Snapshot struct {
	State        models.CardState
	Interval     models.ReviewInterval
	EaseFactor   float64
	LearningStep int
}

// Outcome is the next scheduling state produced for exactly one rating.
type Outcome struct {
	State        models.CardState
	Interval     models.ReviewInterval
	EaseFactor   float64
	LearningStep int
	Lapsed       bool
}

// ComputeReview advances the card state machine by one review. It is pure:
// the due date follows from Outcome.Interval.DueFrom(now) at the call site.
// daysLate is the number of whole days the card was overdue, 0 if it was
// reviewed on time or had no due date; it only influences review-state cards.
func ComputeReview(cfg Config, s Snapshot, rating models.Rating, daysLate int) (Outcome, error) {
	if !rating.Valid() {
		return Outcome{}, ErrUnknownRating
	}

	switch s.State {
	case models.StateNew:
		return reviewNew(cfg, s, rating), nil
	case models.StateLearning:
		return reviewLearning(cfg, s, rating), nil
	case models.StateReview:
		return reviewSteadyState(cfg, s, rating, daysLate), nil
	case models.StateRelearning:
		return reviewRelearning(cfg, s, rating), nil
	default:
		return Outcome{}, ErrUnknownState
	}
}

// NextReviewOptions previews the interval each rating would produce, by
// running ComputeReview once per rating on the same snapshot. Intervals are
// expressed in the unit implied by the resulting state.
func NextReviewOptions(cfg Config, s Snapshot, daysLate int) (map[models.Rating]models.ReviewPreview, error) {
	options := make(map[models.Rating]models.ReviewPreview, len(models.Ratings))
	for _, rating := range models.Ratings {
		out, err := ComputeReview(cfg, s, rating, daysLate)
		if err != nil {
			return nil, err
		}
		options[rating] = models.ReviewPreview{State: out.State, Interval: out.Interval}
	}
	return options, nil
}

func reviewNew(cfg Config, s Snapshot, rating models.Rating) Outcome {
	out := Outcome{EaseFactor: s.EaseFactor}

	switch rating {
	case models.RatingAgain, models.RatingHard:
		out.State = models.StateLearning
		out.Interval = models.Minutes(cfg.stepMinutes(0))
		out.LearningStep = 0
	case models.RatingGood:
		step := 0
		if len(cfg.LearningSteps) > 1 {
			step = 1
		}
		out.State = models.StateLearning
		out.Interval = models.Minutes(cfg.stepMinutes(step))
		out.LearningStep = step
	case models.RatingEasy:
		out.State = models.StateReview
		out.Interval = models.Days(cfg.EasyIntervalDays)
		out.LearningStep = 0
	}
	return out
}

func reviewLearning(cfg Config, s Snapshot, rating models.Rating) Outcome {
	// Ease factor is never touched while learning.
	out := Outcome{EaseFactor: s.EaseFactor}

	switch rating {
	case models.RatingAgain:
		out.State = models.StateLearning
		out.Interval = models.Minutes(cfg.stepMinutes(0))
		out.LearningStep = 0
	case models.RatingHard:
		out.State = models.StateLearning
		out.Interval = models.Minutes(cfg.stepMinutes(s.LearningStep))
		out.LearningStep = s.LearningStep
	case models.RatingGood:
		next := s.LearningStep + 1
		if next >= len(cfg.LearningSteps) {
			out.State = models.StateReview
			out.Interval = models.Days(cfg.GraduatingIntervalDays)
			out.LearningStep = 0
		} else {
			out.State = models.StateLearning
			out.Interval = models.Minutes(cfg.stepMinutes(next))
			out.LearningStep = next
		}
	case models.RatingEasy:
		out.State = models.StateReview
		out.Interval = models.Days(cfg.EasyIntervalDays)
		out.LearningStep = 0
	}
	return out
}

func reviewSteadyState(cfg Config, s Snapshot, rating models.Rating, daysLate int) Outcome {
	// Late answers earn a partial interval credit before the multiplier.
	adjusted := s.Interval.Value + int(math.Floor(float64(daysLate)*latenessCredit))
	if adjusted < 1 {
		adjusted = 1
	}

	out := Outcome{EaseFactor: s.EaseFactor, State: models.StateReview}

	switch rating {
	case models.RatingAgain:
		out.EaseFactor = cfg.clampEase(s.EaseFactor - 0.2)
		out.State = models.StateRelearning
		// The schedule restarts at the first learning step; the decayed
		// interval is computed when relearning completes.
		out.Interval = models.Minutes(cfg.stepMinutes(0))
		out.LearningStep = 0
		out.Lapsed = true
	case models.RatingHard:
		out.EaseFactor = cfg.clampEase(s.EaseFactor - 0.15)
		out.Interval = models.Days(scaledDays(adjusted, cfg.HardMultiplier))
	case models.RatingGood:
		out.Interval = models.Days(scaledDays(adjusted, s.EaseFactor))
	case models.RatingEasy:
		out.EaseFactor = cfg.clampEase(s.EaseFactor + 0.15)
		out.Interval = models.Days(scaledDays(adjusted, out.EaseFactor*cfg.EasyBonus))
	}
	return out
}

func reviewRelearning(cfg Config, s Snapshot, rating models.Rating) Outcome {
	// Ease was already penalized at lapse time; relearning leaves it alone.
	out := Outcome{EaseFactor: s.EaseFactor}

	switch rating {
	case models.RatingAgain:
		out.State = models.StateRelearning
		out.Interval = models.Minutes(cfg.stepMinutes(0))
		out.LearningStep = 0
	case models.RatingHard:
		out.State = models.StateRelearning
		out.Interval = models.Minutes(cfg.stepMinutes(s.LearningStep))
		out.LearningStep = s.LearningStep
	case models.RatingGood:
		next := s.LearningStep + 1
		if next >= len(cfg.LearningSteps) {
			out.State = models.StateReview
			out.Interval = models.Days(lapsedIntervalDays(cfg, s.Interval.Value))
			out.LearningStep = 0
		} else {
			out.State = models.StateRelearning
			out.Interval = models.Minutes(cfg.stepMinutes(next))
			out.LearningStep = next
		}
	case models.RatingEasy:
		out.State = models.StateReview
		out.Interval = models.Days(lapsedIntervalDays(cfg, s.Interval.Value))
		out.LearningStep = 0
	}
	return out
}

// lapsedIntervalDays decays the pre-lapse interval value. The value is taken
// as-is regardless of the unit it was stored in, matching the long-standing
// scheduling behavior.
func lapsedIntervalDays(cfg Config, interval int) int {
	return scaledDays(interval, cfg.LapseMultiplier)
}

func scaledDays(interval int, multiplier float64) int {
	days := int(math.Floor(float64(interval) * multiplier))
	if days < 1 {
		return 1
	}
	return days
}
