package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCardStateValid(t *testing.T) {
	for _, s := range []CardState{StateNew, StateLearning, StateReview, StateRelearning} {
		assert.True(t, s.Valid(), "state %s", s)
	}
	assert.False(t, CardState("suspended").Valid())
	assert.False(t, CardState("").Valid())
}

func TestCardStateInSteps(t *testing.T) {
	assert.True(t, StateLearning.InSteps())
	assert.True(t, StateRelearning.InSteps())
	assert.False(t, StateNew.InSteps())
	assert.False(t, StateReview.InSteps())
}

func TestRatingValid(t *testing.T) {
	for _, r := range Ratings {
		assert.True(t, r.Valid(), "rating %s", r)
	}
	assert.False(t, Rating("perfect").Valid())
	assert.False(t, Rating("").Valid())
}

func TestReviewIntervalDuration(t *testing.T) {
	assert.Equal(t, 10*time.Minute, Minutes(10).Duration())
	assert.Equal(t, 72*time.Hour, Days(3).Duration())
}
