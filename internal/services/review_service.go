package services

import (
	"context"
	"time"

	"github.com/reflaxess123/cardflow/internal/errors"
	"github.com/reflaxess123/cardflow/internal/logger"
	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/repository"
	"github.com/reflaxess123/cardflow/internal/srs"
	"github.com/reflaxess123/cardflow/internal/worker"
)

// maxConflictRetries bounds how many times a review is recomputed after an
// optimistic-lock collision before the caller sees a CONFLICT error.
const maxConflictRetries = 3

// ReviewService handles review submissions and progress resets
type ReviewService interface {
	ReviewCard(ctx context.Context, learnerID, cardID int64, rating models.Rating, responseMs float64) (*models.ReviewResult, error)
	ResetCard(ctx context.Context, learnerID, cardID int64) error
}

type reviewService struct {
	cfg      srs.Config
	cards    repository.CardRepository
	progress repository.ProgressRepository
	history  *worker.Pool
}

// NewReviewService creates a new ReviewService. The history pool is
// optional; with a nil pool review history recording is skipped.
func NewReviewService(cfg srs.Config, cards repository.CardRepository, progress repository.ProgressRepository, history *worker.Pool) ReviewService {
	return &reviewService{cfg: cfg, cards: cards, progress: progress, history: history}
}

func (s *reviewService) ReviewCard(ctx context.Context, learnerID, cardID int64, rating models.Rating, responseMs float64) (*models.ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing card: learner_id=%d, card_id=%d, rating=%s", learnerID, cardID, rating)

	if !rating.Valid() {
		return nil, errors.NewValidationError("rating", "must be one of again, hard, good, easy")
	}

	exists, err := s.cards.Exists(ctx, cardID)
	if err != nil {
		log.Error("failed to check card existence: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !exists {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		result, err := s.reviewOnce(ctx, learnerID, cardID, rating, responseMs)
		if err == repository.ErrConflict {
			log.Debug("progress write conflict, retrying: learner_id=%d, card_id=%d, attempt=%d",
				learnerID, cardID, attempt+1)
			continue
		}
		return result, err
	}

	log.Warn("review kept conflicting after %d retries: learner_id=%d, card_id=%d",
		maxConflictRetries, learnerID, cardID)
	return nil, errors.NewConflictError("concurrent reviews for this card keep conflicting, try again")
}

// reviewOnce runs one read-modify-write cycle. It returns the bare
// repository.ErrConflict so the caller can retry with fresh state.
func (s *reviewService) reviewOnce(ctx context.Context, learnerID, cardID int64, rating models.Rating, responseMs float64) (*models.ReviewResult, error) {
	log := logger.FromContext(ctx)

	p, err := s.progress.Get(ctx, learnerID, cardID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if p == nil {
		fresh := initialProgress(s.cfg, learnerID, cardID)
		p = &fresh
	}

	now := time.Now().UTC()
	daysLate := 0
	if p.DueAt != nil {
		daysLate = srs.DaysOverdue(now, *p.DueAt)
	}

	snapshot := srs.Snapshot{
		State:        p.State,
		Interval:     p.Interval,
		EaseFactor:   p.EaseFactor,
		LearningStep: p.LearningStep,
	}
	outcome, err := srs.ComputeReview(s.cfg, snapshot, rating, daysLate)
	if err == srs.ErrUnknownState {
		log.Error("corrupt card state %q: learner_id=%d, card_id=%d", p.State, learnerID, cardID)
		return nil, errors.NewIntegrityError("persisted card state is corrupt", err)
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	due := outcome.Interval.DueFrom(now)
	p.State = outcome.State
	p.Interval = outcome.Interval
	p.EaseFactor = outcome.EaseFactor
	p.LearningStep = outcome.LearningStep
	p.DueAt = &due
	p.ReviewCount++
	if outcome.Lapsed {
		p.LapseCount++
	}
	p.LastReviewedAt = &now

	stored, err := s.progress.Upsert(ctx, *p)
	if err == repository.ErrConflict {
		return nil, err
	}
	if err != nil {
		log.Error("failed to persist progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("review applied: state=%s, interval=%d %s, ease=%.2f",
		stored.State, stored.Interval.Value, stored.Interval.Unit, stored.EaseFactor)

	if s.history != nil {
		s.history.Submit(&worker.RecordReviewJob{
			Progress:   s.progress,
			LearnerID:  learnerID,
			CardID:     cardID,
			Rating:     rating,
			ResponseMs: responseMs,
		})
	}

	preview, err := srs.NextReviewOptions(s.cfg, srs.Snapshot{
		State:        stored.State,
		Interval:     stored.Interval,
		EaseFactor:   stored.EaseFactor,
		LearningStep: stored.LearningStep,
	}, 0)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	return &models.ReviewResult{
		LearnerID:     learnerID,
		CardID:        cardID,
		State:         stored.State,
		Interval:      stored.Interval,
		EaseFactor:    stored.EaseFactor,
		LearningStep:  stored.LearningStep,
		DueAt:         due,
		ReviewCount:   stored.ReviewCount,
		LapseCount:    stored.LapseCount,
		ReviewedAt:    now,
		NextIntervals: preview,
	}, nil
}

func (s *reviewService) ResetCard(ctx context.Context, learnerID, cardID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("resetting card: learner_id=%d, card_id=%d", learnerID, cardID)

	exists, err := s.cards.Exists(ctx, cardID)
	if err != nil {
		log.Error("failed to check card existence: %v", err)
		return errors.NewInternalError(err)
	}
	if !exists {
		return errors.NewNotFoundError("card", cardID)
	}

	if err := s.progress.Reset(ctx, learnerID, cardID); err != nil {
		log.Error("failed to reset progress: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("card progress reset: learner_id=%d, card_id=%d", learnerID, cardID)
	return nil
}

// initialProgress is the state of a never-reviewed card: an absent record
// behaves exactly like this value.
func initialProgress(cfg srs.Config, learnerID, cardID int64) models.CardProgress {
	return models.CardProgress{
		LearnerID:  learnerID,
		CardID:     cardID,
		State:      models.StateNew,
		Interval:   models.Days(1),
		EaseFactor: cfg.InitialEaseFactor,
	}
}
