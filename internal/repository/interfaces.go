package repository

import (
	"context"
	"errors"
	"time"

	"github.com/reflaxess123/cardflow/internal/models"
)

// ErrConflict is returned by ProgressRepository.Upsert when the optimistic
// version check fails, i.e. another review for the same (learner, card) pair
// committed between read and write. Callers re-read and retry.
var ErrConflict = errors.New("progress record version conflict")

// CandidateFilter selects which scheduling states the due-queue query
// should consider. Learning covers both learning and relearning.
type CandidateFilter struct {
	IncludeNew      bool
	IncludeLearning bool
	IncludeReview   bool
}

// Candidate pairs a catalog card with the learner's progress record, if one
// exists. A nil Progress means the card has never been reviewed.
type Candidate struct {
	Card     models.Card
	Progress *models.CardProgress
}

// CardRepository handles card catalog access
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) (int64, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

// ProgressRepository handles per-(learner, card) scheduling state
type ProgressRepository interface {
	Get(ctx context.Context, learnerID, cardID int64) (*models.CardProgress, error)
	Upsert(ctx context.Context, progress models.CardProgress) (*models.CardProgress, error)
	Reset(ctx context.Context, learnerID, cardID int64) error
	ListCandidates(ctx context.Context, learnerID int64, filter CandidateFilter, limit int) ([]Candidate, error)
	CountByState(ctx context.Context, learnerID int64) (map[models.CardState]int, error)
	InsertReviewHistory(ctx context.Context, learnerID, cardID int64, rating models.Rating, responseMs float64) error
	CountDue(ctx context.Context, now time.Time) (int, error)
	PruneHistory(ctx context.Context, before time.Time) (int64, error)
}
