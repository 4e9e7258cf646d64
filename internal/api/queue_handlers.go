package api

import (
	"net/http"

	"github.com/reflaxess123/cardflow/internal/repository"
)

const defaultQueueLimit = 20

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	learnerID, err := urlParamInt64(r, "learnerID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit, err := queryIntOr(r, "limit", defaultQueueLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var filter repository.CandidateFilter
	if filter.IncludeNew, err = queryBoolOr(r, "new", true); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.IncludeLearning, err = queryBoolOr(r, "learning", true); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.IncludeReview, err = queryBoolOr(r, "review", true); err != nil {
		handleError(w, r, err)
		return
	}

	queue, err := s.QueueService.DueCards(r.Context(), learnerID, limit, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"cards": queue,
		"count": len(queue),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	learnerID, err := urlParamInt64(r, "learnerID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	counts, err := s.StatsService.ProgressStats(r.Context(), learnerID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}
