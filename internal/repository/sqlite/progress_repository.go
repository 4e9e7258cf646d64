package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/reflaxess123/cardflow/internal/logger"
	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

const progressColumns = `learner_id, card_id, state, interval_value, interval_unit, ease_factor, learning_step,
       due_at, review_count, lapse_count, last_reviewed_at, version, created_at, updated_at`

func scanProgress(row *sql.Row) (*models.CardProgress, error) {
	var p models.CardProgress
	var dueAt, lastReviewedAt sql.NullTime
	err := row.Scan(&p.LearnerID, &p.CardID, &p.State, &p.Interval.Value, &p.Interval.Unit, &p.EaseFactor,
		&p.LearningStep, &dueAt, &p.ReviewCount, &p.LapseCount, &lastReviewedAt, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if dueAt.Valid {
		t := dueAt.Time
		p.DueAt = &t
	}
	if lastReviewedAt.Valid {
		t := lastReviewedAt.Time
		p.LastReviewedAt = &t
	}
	return &p, nil
}

func (r *progressRepository) Get(ctx context.Context, learnerID, cardID int64) (*models.CardProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: learner_id=%d, card_id=%d", learnerID, cardID)

	row := r.db.QueryRowContext(ctx, `
SELECT `+progressColumns+`
FROM card_progress
WHERE learner_id = ? AND card_id = ?
`, learnerID, cardID)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress record: learner_id=%d, card_id=%d", learnerID, cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return p, nil
}

// Upsert persists the progress record atomically. A record with Version 0 is
// inserted; anything else is updated with a compare-and-swap on the version
// column. Both paths surface repository.ErrConflict when a concurrent writer
// got there first.
func (r *progressRepository) Upsert(ctx context.Context, p models.CardProgress) (*models.CardProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	if p.Version == 0 {
		log.Debug("inserting progress: learner_id=%d, card_id=%d, state=%s", p.LearnerID, p.CardID, p.State)
		_, err := r.db.ExecContext(ctx, `
INSERT INTO card_progress (learner_id, card_id, state, interval_value, interval_unit, ease_factor, learning_step,
                           due_at, review_count, lapse_count, last_reviewed_at, version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
`, p.LearnerID, p.CardID, p.State, p.Interval.Value, p.Interval.Unit, p.EaseFactor, p.LearningStep,
			p.DueAt, p.ReviewCount, p.LapseCount, p.LastReviewedAt)
		if err != nil {
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
				log.Debug("concurrent insert detected: learner_id=%d, card_id=%d", p.LearnerID, p.CardID)
				return nil, repository.ErrConflict
			}
			log.Error("failed to insert progress: %v", err)
			return nil, err
		}
		p.Version = 1
		return &p, nil
	}

	log.Debug("updating progress: learner_id=%d, card_id=%d, state=%s, version=%d",
		p.LearnerID, p.CardID, p.State, p.Version)
	res, err := r.db.ExecContext(ctx, `
UPDATE card_progress
SET state = ?, interval_value = ?, interval_unit = ?, ease_factor = ?, learning_step = ?,
    due_at = ?, review_count = ?, lapse_count = ?, last_reviewed_at = ?,
    version = version + 1, updated_at = CURRENT_TIMESTAMP
WHERE learner_id = ? AND card_id = ? AND version = ?
`, p.State, p.Interval.Value, p.Interval.Unit, p.EaseFactor, p.LearningStep,
		p.DueAt, p.ReviewCount, p.LapseCount, p.LastReviewedAt,
		p.LearnerID, p.CardID, p.Version)
	if err != nil {
		log.Error("failed to update progress: %v", err)
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read affected rows: %v", err)
		return nil, err
	}
	if affected == 0 {
		log.Debug("version conflict: learner_id=%d, card_id=%d, version=%d", p.LearnerID, p.CardID, p.Version)
		return nil, repository.ErrConflict
	}
	p.Version++
	return &p, nil
}

func (r *progressRepository) Reset(ctx context.Context, learnerID, cardID int64) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("resetting progress: learner_id=%d, card_id=%d", learnerID, cardID)

	_, err := r.db.ExecContext(ctx, `
DELETE FROM card_progress
WHERE learner_id = ? AND card_id = ?
`, learnerID, cardID)
	if err != nil {
		log.Error("failed to reset progress: %v", err)
	}
	return err
}

func (r *progressRepository) ListCandidates(ctx context.Context, learnerID int64, filter repository.CandidateFilter, limit int) ([]repository.Candidate, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing candidates: learner_id=%d, limit=%d", learnerID, limit)

	var include squirrel.Or
	if filter.IncludeNew {
		include = append(include,
			squirrel.Expr("p.card_id IS NULL"),
			squirrel.Eq{"p.state": string(models.StateNew)})
	}
	if filter.IncludeLearning {
		include = append(include,
			squirrel.Eq{"p.state": []string{string(models.StateLearning), string(models.StateRelearning)}})
	}
	if filter.IncludeReview {
		include = append(include, squirrel.Eq{"p.state": string(models.StateReview)})
	}
	if len(include) == 0 {
		log.Debug("no states included, returning empty candidate set")
		return nil, nil
	}

	query, args, err := sqlBuilder.
		Select("c.id", "c.front", "c.back", "c.created_at",
			"p.state", "p.interval_value", "p.interval_unit", "p.ease_factor", "p.learning_step",
			"p.due_at", "p.review_count", "p.lapse_count", "p.last_reviewed_at", "p.version").
		From("cards c").
		LeftJoin("card_progress p ON p.card_id = c.id AND p.learner_id = ?", learnerID).
		Where(include).
		OrderBy("p.due_at IS NULL", "p.due_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Error("failed to build candidate query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query candidates: %v", err)
		return nil, err
	}
	defer rows.Close()

	var candidates []repository.Candidate
	for rows.Next() {
		var cand repository.Candidate
		var state, unit sql.NullString
		var intervalValue, learningStep, reviewCount, lapseCount sql.NullInt64
		var easeFactor sql.NullFloat64
		var dueAt, lastReviewedAt sql.NullTime
		var version sql.NullInt64
		if err := rows.Scan(&cand.Card.ID, &cand.Card.Front, &cand.Card.Back, &cand.Card.CreatedAt,
			&state, &intervalValue, &unit, &easeFactor, &learningStep,
			&dueAt, &reviewCount, &lapseCount, &lastReviewedAt, &version); err != nil {
			log.Error("failed to scan candidate row: %v", err)
			return nil, err
		}
		if state.Valid {
			p := models.CardProgress{
				LearnerID:    learnerID,
				CardID:       cand.Card.ID,
				State:        models.CardState(state.String),
				Interval:     models.ReviewInterval{Value: int(intervalValue.Int64), Unit: models.IntervalUnit(unit.String)},
				EaseFactor:   easeFactor.Float64,
				LearningStep: int(learningStep.Int64),
				ReviewCount:  int(reviewCount.Int64),
				LapseCount:   int(lapseCount.Int64),
				Version:      version.Int64,
			}
			if dueAt.Valid {
				t := dueAt.Time
				p.DueAt = &t
			}
			if lastReviewedAt.Valid {
				t := lastReviewedAt.Time
				p.LastReviewedAt = &t
			}
			cand.Progress = &p
		}
		candidates = append(candidates, cand)
	}
	log.Debug("found %d candidates", len(candidates))
	return candidates, rows.Err()
}

func (r *progressRepository) CountByState(ctx context.Context, learnerID int64) (map[models.CardState]int, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("counting progress by state: learner_id=%d", learnerID)

	rows, err := r.db.QueryContext(ctx, `
SELECT state, COUNT(*)
FROM card_progress
WHERE learner_id = ?
GROUP BY state
`, learnerID)
	if err != nil {
		log.Error("failed to count by state: %v", err)
		return nil, err
	}
	defer rows.Close()

	counts := map[models.CardState]int{}
	for rows.Next() {
		var state models.CardState
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			log.Error("failed to scan state count row: %v", err)
			return nil, err
		}
		counts[state] = count
	}
	return counts, rows.Err()
}

func (r *progressRepository) InsertReviewHistory(ctx context.Context, learnerID, cardID int64, rating models.Rating, responseMs float64) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("inserting review history: learner_id=%d, card_id=%d, rating=%s", learnerID, cardID, rating)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (learner_id, card_id, rating, response_ms)
VALUES (?, ?, ?, ?)
`, learnerID, cardID, rating, responseMs)
	if err != nil {
		log.Error("failed to insert review history: %v", err)
	}
	return err
}

func (r *progressRepository) CountDue(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM card_progress
WHERE due_at IS NOT NULL AND due_at <= ?
`, now).Scan(&count)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("progress_repo").Error("failed to count due cards: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *progressRepository) PruneHistory(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("pruning review history before %s", before.Format(time.RFC3339))

	res, err := r.db.ExecContext(ctx, `DELETE FROM review_history WHERE reviewed_at < ?`, before)
	if err != nil {
		log.Error("failed to prune review history: %v", err)
		return 0, err
	}
	return res.RowsAffected()
}
