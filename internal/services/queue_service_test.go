package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reflaxess123/cardflow/internal/errors"
	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/repository"
	"github.com/reflaxess123/cardflow/internal/services"
	"github.com/reflaxess123/cardflow/internal/srs"
	"github.com/reflaxess123/cardflow/internal/testutil/mocks"
)

var allStates = repository.CandidateFilter{IncludeNew: true, IncludeLearning: true, IncludeReview: true}

func card(id int64) models.Card {
	return models.Card{ID: id, Front: "front", Back: "back"}
}

func progressCandidate(id int64, p models.CardProgress) repository.Candidate {
	p.CardID = id
	return repository.Candidate{Card: card(id), Progress: &p}
}

func TestDueCards_LimitValidation(t *testing.T) {
	progress := new(mocks.MockProgressRepository)
	svc := services.NewQueueService(srs.DefaultConfig(), progress)

	for _, limit := range []int{0, -5, 101} {
		_, err := svc.DueCards(context.Background(), 1, limit, allStates)
		assertAppError(t, err, errors.ErrCodeValidation, 400)
	}
	progress.AssertNotCalled(t, "ListCandidates")
}

func TestDueCards_FreshCardsHaveNoDueDate(t *testing.T) {
	progress := new(mocks.MockProgressRepository)
	svc := services.NewQueueService(srs.DefaultConfig(), progress)

	progress.On("ListCandidates", mock.Anything, int64(1), allStates, 80).
		Return([]repository.Candidate{{Card: card(10)}}, nil)

	queue, err := svc.DueCards(context.Background(), 1, 20, allStates)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	assert.Equal(t, models.StateNew, queue[0].State)
	assert.Nil(t, queue[0].DueAt)
	assert.False(t, queue[0].IsOverdue)
	assert.Equal(t, 0.0, queue[0].Priority)
	assert.Equal(t, 2.5, queue[0].EaseFactor)
}

func TestDueCards_FreshCardsExcludedWithoutNewFilter(t *testing.T) {
	progress := new(mocks.MockProgressRepository)
	svc := services.NewQueueService(srs.DefaultConfig(), progress)

	filter := repository.CandidateFilter{IncludeLearning: true, IncludeReview: true}
	progress.On("ListCandidates", mock.Anything, int64(1), filter, 80).
		Return([]repository.Candidate{{Card: card(10)}}, nil)

	queue, err := svc.DueCards(context.Background(), 1, 20, filter)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestDueCards_DueGating(t *testing.T) {
	now := time.Now().UTC()

	past := now.Add(-5 * time.Minute)
	future := now.Add(5 * time.Minute)
	hoursLate := now.Add(-6 * time.Hour)
	dayLate := now.Add(-30 * time.Hour)

	tests := []struct {
		name     string
		progress models.CardProgress
		wantIn   bool
	}{
		{
			name:     "learning card past due",
			progress: models.CardProgress{State: models.StateLearning, Interval: models.Minutes(10), EaseFactor: 2.5, DueAt: &past},
			wantIn:   true,
		},
		{
			name:     "learning card not yet due",
			progress: models.CardProgress{State: models.StateLearning, Interval: models.Minutes(10), EaseFactor: 2.5, DueAt: &future},
			wantIn:   false,
		},
		{
			name:     "relearning card past due",
			progress: models.CardProgress{State: models.StateRelearning, Interval: models.Minutes(1), EaseFactor: 2.0, DueAt: &past},
			wantIn:   true,
		},
		{
			name:     "review card a whole day late",
			progress: models.CardProgress{State: models.StateReview, Interval: models.Days(3), EaseFactor: 2.5, DueAt: &dayLate},
			wantIn:   true,
		},
		{
			name:     "review card only hours late",
			progress: models.CardProgress{State: models.StateReview, Interval: models.Days(3), EaseFactor: 2.5, DueAt: &hoursLate},
			wantIn:   false,
		},
		{
			name:     "review card due in the future",
			progress: models.CardProgress{State: models.StateReview, Interval: models.Days(3), EaseFactor: 2.5, DueAt: &future},
			wantIn:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := new(mocks.MockProgressRepository)
			svc := services.NewQueueService(srs.DefaultConfig(), progress)

			progress.On("ListCandidates", mock.Anything, int64(1), allStates, 80).
				Return([]repository.Candidate{progressCandidate(10, tt.progress)}, nil)

			queue, err := svc.DueCards(context.Background(), 1, 20, allStates)
			require.NoError(t, err)
			if tt.wantIn {
				assert.Len(t, queue, 1)
			} else {
				assert.Empty(t, queue)
			}
		})
	}
}

func TestDueCards_StateFilter(t *testing.T) {
	now := time.Now().UTC()
	learnDue := now.Add(-time.Minute)
	reviewDue := now.Add(-30 * time.Hour)

	candidates := []repository.Candidate{
		progressCandidate(1, models.CardProgress{State: models.StateLearning, Interval: models.Minutes(1), EaseFactor: 2.5, DueAt: &learnDue}),
		progressCandidate(2, models.CardProgress{State: models.StateReview, Interval: models.Days(2), EaseFactor: 2.5, DueAt: &reviewDue}),
	}

	progress := new(mocks.MockProgressRepository)
	svc := services.NewQueueService(srs.DefaultConfig(), progress)

	filter := repository.CandidateFilter{IncludeReview: true}
	progress.On("ListCandidates", mock.Anything, int64(1), filter, 80).Return(candidates, nil)

	queue, err := svc.DueCards(context.Background(), 1, 20, filter)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, int64(2), queue[0].ID)
}

func TestDueCards_OrderedByPriorityAndTruncated(t *testing.T) {
	now := time.Now().UTC()
	learnDue := now.Add(-time.Minute)
	overdue := now.Add(-10 * 24 * time.Hour)
	slightlyOverdue := now.Add(-25 * time.Hour)

	candidates := []repository.Candidate{
		// Mildly overdue review card.
		progressCandidate(1, models.CardProgress{State: models.StateReview, Interval: models.Days(2), EaseFactor: 2.5, DueAt: &slightlyOverdue}),
		// Heavily overdue, difficult, lapsed review card.
		progressCandidate(2, models.CardProgress{State: models.StateReview, Interval: models.Days(5), EaseFactor: 1.3, LapseCount: 4, DueAt: &overdue}),
		// Learning card: in-steps boost wins over review urgency.
		progressCandidate(3, models.CardProgress{State: models.StateLearning, Interval: models.Minutes(10), EaseFactor: 2.5, DueAt: &learnDue}),
		// Untracked card, priority zero.
		{Card: card(4)},
	}

	progress := new(mocks.MockProgressRepository)
	svc := services.NewQueueService(srs.DefaultConfig(), progress)
	progress.On("ListCandidates", mock.Anything, int64(1), allStates, 12).Return(candidates, nil)

	queue, err := svc.DueCards(context.Background(), 1, 3, allStates)
	require.NoError(t, err)
	require.Len(t, queue, 3, "queue is truncated to the requested limit")

	assert.Equal(t, int64(2), queue[0].ID, "overdue difficult card first: %f vs %f", queue[0].Priority, queue[1].Priority)
	assert.Equal(t, int64(3), queue[1].ID, "learning card second")
	assert.Equal(t, int64(1), queue[2].ID, "mildly overdue review card third")

	assert.True(t, queue[0].IsOverdue)
	assert.Equal(t, 4, queue[0].LapseCount)
}

func TestDueCards_DaysSinceLastReview(t *testing.T) {
	now := time.Now().UTC()
	due := now.Add(-30 * time.Hour)
	lastReviewed := now.Add(-3 * 24 * time.Hour)

	p := models.CardProgress{
		State:          models.StateReview,
		Interval:       models.Days(1),
		EaseFactor:     2.5,
		DueAt:          &due,
		LastReviewedAt: &lastReviewed,
	}

	progress := new(mocks.MockProgressRepository)
	svc := services.NewQueueService(srs.DefaultConfig(), progress)
	progress.On("ListCandidates", mock.Anything, int64(1), allStates, 80).
		Return([]repository.Candidate{progressCandidate(9, p)}, nil)

	queue, err := svc.DueCards(context.Background(), 1, 20, allStates)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	require.NotNil(t, queue[0].DaysSinceLastReview)
	assert.Equal(t, 3, *queue[0].DaysSinceLastReview)
}
