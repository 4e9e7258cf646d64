package services

import (
	"context"
	"strings"

	"github.com/reflaxess123/cardflow/internal/errors"
	"github.com/reflaxess123/cardflow/internal/logger"
	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/repository"
)

// CardService is the minimal catalog surface the engine needs: enough to
// create cards for review and resolve not-found errors.
type CardService interface {
	CreateCard(ctx context.Context, front, back string) (*models.Card, error)
	GetCard(ctx context.Context, id int64) (*models.Card, error)
}

type cardService struct {
	cards repository.CardRepository
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository) CardService {
	return &cardService{cards: cards}
}

func (s *cardService) CreateCard(ctx context.Context, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)

	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" {
		return nil, errors.NewValidationError("front", "must not be empty")
	}
	if back == "" {
		return nil, errors.NewValidationError("back", "must not be empty")
	}

	id, err := s.cards.Insert(ctx, models.Card{Front: front, Back: back})
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	card, err := s.cards.Get(ctx, id)
	if err != nil {
		log.Error("failed to reload card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("card created: id=%d", id)
	return card, nil
}

func (s *cardService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}
