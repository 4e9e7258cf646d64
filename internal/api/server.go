package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reflaxess123/cardflow/internal/services"
)

// Server holds the HTTP handlers' dependencies.
type Server struct {
	CardService   services.CardService
	ReviewService services.ReviewService
	QueueService  services.QueueService
	StatsService  services.StatsService
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Post("/cards", s.handleCreateCard)
	r.Get("/cards/{cardID}", s.handleGetCard)

	r.Route("/learners/{learnerID}", func(r chi.Router) {
		r.Get("/queue", s.handleQueue)
		r.Get("/stats", s.handleStats)
		r.Post("/cards/{cardID}/review", s.handleReviewCard)
		r.Post("/cards/{cardID}/reset", s.handleResetCard)
	})

	return r
}
