package services

import (
	"context"
	"sort"
	"time"

	"github.com/reflaxess123/cardflow/internal/errors"
	"github.com/reflaxess123/cardflow/internal/logger"
	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/repository"
	"github.com/reflaxess123/cardflow/internal/srs"
)

const (
	minQueueLimit = 1
	maxQueueLimit = 100

	// oversampleFactor widens the candidate fetch so the queue stays full
	// after due gating drops candidates.
	oversampleFactor = 4
)

// QueueService builds the ordered review queue for a learner
type QueueService interface {
	DueCards(ctx context.Context, learnerID int64, limit int, filter repository.CandidateFilter) ([]models.DueCard, error)
}

type queueService struct {
	cfg      srs.Config
	progress repository.ProgressRepository
}

// NewQueueService creates a new QueueService
func NewQueueService(cfg srs.Config, progress repository.ProgressRepository) QueueService {
	return &queueService{cfg: cfg, progress: progress}
}

func (s *queueService) DueCards(ctx context.Context, learnerID int64, limit int, filter repository.CandidateFilter) ([]models.DueCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("building review queue: learner_id=%d, limit=%d", learnerID, limit)

	if limit < minQueueLimit || limit > maxQueueLimit {
		return nil, errors.NewValidationError("limit", "must be between 1 and 100")
	}

	candidates, err := s.progress.ListCandidates(ctx, learnerID, filter, limit*oversampleFactor)
	if err != nil {
		log.Error("failed to list candidates: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := time.Now().UTC()
	queue := make([]models.DueCard, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Progress == nil {
			if !filter.IncludeNew {
				continue
			}
			queue = append(queue, s.freshCard(cand.Card, now))
			continue
		}

		p := cand.Progress
		if !stateIncluded(filter, p.State) {
			continue
		}
		if !dueNow(p, now) {
			continue
		}
		queue = append(queue, s.annotate(cand.Card, p, now))
	}

	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].Priority > queue[j].Priority
	})
	if len(queue) > limit {
		queue = queue[:limit]
	}

	log.Debug("review queue built: %d cards", len(queue))
	return queue, nil
}

func stateIncluded(filter repository.CandidateFilter, state models.CardState) bool {
	switch state {
	case models.StateNew:
		return filter.IncludeNew
	case models.StateLearning, models.StateRelearning:
		return filter.IncludeLearning
	case models.StateReview:
		return filter.IncludeReview
	}
	return false
}

// dueNow applies per-state due gating. Learning and relearning cards are
// due the moment their due date passes; review cards wait until a whole day
// has elapsed past the due date.
func dueNow(p *models.CardProgress, now time.Time) bool {
	switch p.State {
	case models.StateLearning, models.StateRelearning:
		return p.DueAt == nil || !now.Before(*p.DueAt)
	case models.StateReview:
		return p.DueAt != nil && srs.DaysOverdue(now, *p.DueAt) >= 1
	}
	return true
}

// freshCard wraps a card that has no progress record: implicitly NEW with
// default scheduling fields and no due date.
func (s *queueService) freshCard(card models.Card, now time.Time) models.DueCard {
	return models.DueCard{
		Card:       card,
		State:      models.StateNew,
		Interval:   models.Days(1),
		EaseFactor: s.cfg.InitialEaseFactor,
		Priority:   srs.Priority(s.cfg, now, nil, s.cfg.InitialEaseFactor, 0, models.StateNew),
	}
}

func (s *queueService) annotate(card models.Card, p *models.CardProgress, now time.Time) models.DueCard {
	dc := models.DueCard{
		Card:        card,
		State:       p.State,
		Interval:    p.Interval,
		EaseFactor:  p.EaseFactor,
		DueAt:       p.DueAt,
		ReviewCount: p.ReviewCount,
		LapseCount:  p.LapseCount,
		IsOverdue:   p.DueAt != nil && now.After(*p.DueAt),
		Priority:    srs.Priority(s.cfg, now, p.DueAt, p.EaseFactor, p.LapseCount, p.State),
	}
	if p.LastReviewedAt != nil {
		days := int(now.Sub(*p.LastReviewedAt).Hours() / 24)
		dc.DaysSinceLastReview = &days
	}
	return dc
}
