package worker

import (
	"context"

	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/repository"
)

// RecordReviewJob appends one row to the review history. History is an
// audit trail, not engine state, so it is written off the request path and
// a failure never fails the review itself.
type RecordReviewJob struct {
	Progress   repository.ProgressRepository
	LearnerID  int64
	CardID     int64
	Rating     models.Rating
	ResponseMs float64
}

func (j *RecordReviewJob) Name() string { return "record_review" }

func (j *RecordReviewJob) Run(ctx context.Context) error {
	return j.Progress.InsertReviewHistory(ctx, j.LearnerID, j.CardID, j.Rating, j.ResponseMs)
}
