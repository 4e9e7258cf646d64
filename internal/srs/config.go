package srs

import "fmt"

// Config holds the scheduling constants. It is immutable for the process
// lifetime and passed explicitly to the calculator and services; there is
// no package-level default in use at runtime.
type Config struct {
	// LearningSteps are the minute-scale delays a card cycles through
	// before graduating to day-scale review intervals.
	LearningSteps []int

	// GraduatingIntervalDays is the first review interval after the last
	// learning step is passed with "good".
	GraduatingIntervalDays int

	// EasyIntervalDays is the review interval assigned when a card is
	// rated "easy" before graduating.
	EasyIntervalDays int

	InitialEaseFactor float64
	MinEaseFactor     float64
	MaxEaseFactor     float64

	// HardMultiplier scales the interval of a review-state card rated "hard".
	HardMultiplier float64

	// EasyBonus is an extra multiplier on top of the ease factor for
	// review-state cards rated "easy".
	EasyBonus float64

	// LapseMultiplier scales the pre-lapse interval when a card returns
	// to review after relearning.
	LapseMultiplier float64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		LearningSteps:          []int{1, 10},
		GraduatingIntervalDays: 1,
		EasyIntervalDays:       4,
		InitialEaseFactor:      2.5,
		MinEaseFactor:          1.3,
		MaxEaseFactor:          2.5,
		HardMultiplier:         1.2,
		EasyBonus:              1.3,
		LapseMultiplier:        0.5,
	}
}

// Validate checks the config for values the state machine cannot work with.
func (c Config) Validate() error {
	if len(c.LearningSteps) == 0 {
		return fmt.Errorf("srs config: at least one learning step is required")
	}
	for i, step := range c.LearningSteps {
		if step < 1 {
			return fmt.Errorf("srs config: learning step %d must be at least 1 minute, got %d", i, step)
		}
	}
	if c.GraduatingIntervalDays < 1 {
		return fmt.Errorf("srs config: graduating interval must be at least 1 day, got %d", c.GraduatingIntervalDays)
	}
	if c.EasyIntervalDays < 1 {
		return fmt.Errorf("srs config: easy interval must be at least 1 day, got %d", c.EasyIntervalDays)
	}
	if c.MinEaseFactor <= 0 || c.MaxEaseFactor < c.MinEaseFactor {
		return fmt.Errorf("srs config: ease factor bounds [%.2f, %.2f] are invalid", c.MinEaseFactor, c.MaxEaseFactor)
	}
	if c.InitialEaseFactor < c.MinEaseFactor || c.InitialEaseFactor > c.MaxEaseFactor {
		return fmt.Errorf("srs config: initial ease factor %.2f outside bounds [%.2f, %.2f]",
			c.InitialEaseFactor, c.MinEaseFactor, c.MaxEaseFactor)
	}
	if c.HardMultiplier <= 0 {
		return fmt.Errorf("srs config: hard multiplier must be positive, got %.2f", c.HardMultiplier)
	}
	if c.EasyBonus <= 0 {
		return fmt.Errorf("srs config: easy bonus must be positive, got %.2f", c.EasyBonus)
	}
	if c.LapseMultiplier <= 0 {
		return fmt.Errorf("srs config: lapse multiplier must be positive, got %.2f", c.LapseMultiplier)
	}
	return nil
}

// stepMinutes returns the duration of the given learning step, falling back
// to the first step when the index is out of range.
func (c Config) stepMinutes(step int) int {
	if step < 0 || step >= len(c.LearningSteps) {
		return c.LearningSteps[0]
	}
	return c.LearningSteps[step]
}

func (c Config) clampEase(ease float64) float64 {
	if ease < c.MinEaseFactor {
		return c.MinEaseFactor
	}
	if ease > c.MaxEaseFactor {
		return c.MaxEaseFactor
	}
	return ease
}
