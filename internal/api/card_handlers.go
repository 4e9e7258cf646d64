package api

import (
	"net/http"

	"github.com/reflaxess123/cardflow/internal/logger"
)

type createCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.CreateCard(r.Context(), req.Front, req.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := urlParamInt64(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.GetCard(r.Context(), cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debug("health check")
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
