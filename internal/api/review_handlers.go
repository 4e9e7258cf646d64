package api

import (
	"net/http"

	"github.com/reflaxess123/cardflow/internal/logger"
	"github.com/reflaxess123/cardflow/internal/models"
)

type reviewRequest struct {
	Rating     string  `json:"rating"`
	ResponseMs float64 `json:"response_ms"`
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	learnerID, err := urlParamInt64(r, "learnerID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cardID, err := urlParamInt64(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.ResponseMs < 0 {
		req.ResponseMs = 0
	}

	log = log.WithFields(map[string]any{
		"learner_id": learnerID,
		"card_id":    cardID,
		"rating":     req.Rating,
	})
	log.Debug("review submitted")

	result, err := s.ReviewService.ReviewCard(r.Context(), learnerID, cardID, models.Rating(req.Rating), req.ResponseMs)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card reviewed successfully")
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleResetCard(w http.ResponseWriter, r *http.Request) {
	learnerID, err := urlParamInt64(r, "learnerID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cardID, err := urlParamInt64(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ReviewService.ResetCard(r.Context(), learnerID, cardID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
