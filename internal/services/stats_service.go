package services

import (
	"context"

	"github.com/reflaxess123/cardflow/internal/errors"
	"github.com/reflaxess123/cardflow/internal/logger"
	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/repository"
)

// StatsService reports a learner's per-state progress distribution
type StatsService interface {
	ProgressStats(ctx context.Context, learnerID int64) (*models.ProgressCounts, error)
}

type statsService struct {
	cards    repository.CardRepository
	progress repository.ProgressRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(cards repository.CardRepository, progress repository.ProgressRepository) StatsService {
	return &statsService{cards: cards, progress: progress}
}

func (s *statsService) ProgressStats(ctx context.Context, learnerID int64) (*models.ProgressCounts, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing progress stats: learner_id=%d", learnerID)

	byState, err := s.progress.CountByState(ctx, learnerID)
	if err != nil {
		log.Error("failed to count progress by state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	totalCards, err := s.cards.Count(ctx)
	if err != nil {
		log.Error("failed to count cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	tracked := 0
	for _, count := range byState {
		tracked += count
	}

	counts := &models.ProgressCounts{
		Learning:   byState[models.StateLearning],
		Review:     byState[models.StateReview],
		Relearning: byState[models.StateRelearning],
		TotalCards: totalCards,
	}
	// Cards without a record are implicitly new.
	counts.New = byState[models.StateNew] + totalCards - tracked
	if counts.New < 0 {
		counts.New = 0
	}
	return counts, nil
}
