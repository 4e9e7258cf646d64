package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/repository"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, learnerID, cardID int64) (*models.CardProgress, error) {
	args := m.Called(ctx, learnerID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardProgress), args.Error(1)
}

func (m *MockProgressRepository) Upsert(ctx context.Context, progress models.CardProgress) (*models.CardProgress, error) {
	args := m.Called(ctx, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardProgress), args.Error(1)
}

func (m *MockProgressRepository) Reset(ctx context.Context, learnerID, cardID int64) error {
	args := m.Called(ctx, learnerID, cardID)
	return args.Error(0)
}

func (m *MockProgressRepository) ListCandidates(ctx context.Context, learnerID int64, filter repository.CandidateFilter, limit int) ([]repository.Candidate, error) {
	args := m.Called(ctx, learnerID, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Candidate), args.Error(1)
}

func (m *MockProgressRepository) CountByState(ctx context.Context, learnerID int64) (map[models.CardState]int, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.CardState]int), args.Error(1)
}

func (m *MockProgressRepository) InsertReviewHistory(ctx context.Context, learnerID, cardID int64, rating models.Rating, responseMs float64) error {
	args := m.Called(ctx, learnerID, cardID, rating, responseMs)
	return args.Error(0)
}

func (m *MockProgressRepository) CountDue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressRepository) PruneHistory(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
