package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reflaxess123/cardflow/internal/errors"
	"github.com/reflaxess123/cardflow/internal/models"
	"github.com/reflaxess123/cardflow/internal/services"
	"github.com/reflaxess123/cardflow/internal/testutil/mocks"
)

func TestCreateCard(t *testing.T) {
	t.Run("trims and stores", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		svc := services.NewCardService(cards)

		cards.On("Insert", mock.Anything, models.Card{Front: "bonjour", Back: "hello"}).Return(int64(5), nil)
		cards.On("Get", mock.Anything, int64(5)).Return(&models.Card{ID: 5, Front: "bonjour", Back: "hello"}, nil)

		card, err := svc.CreateCard(context.Background(), "  bonjour ", " hello\n")
		require.NoError(t, err)
		assert.Equal(t, int64(5), card.ID)
		cards.AssertExpectations(t)
	})

	t.Run("rejects blank sides", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		svc := services.NewCardService(cards)

		_, err := svc.CreateCard(context.Background(), "   ", "back")
		assertAppError(t, err, errors.ErrCodeValidation, 400)

		_, err = svc.CreateCard(context.Background(), "front", "")
		assertAppError(t, err, errors.ErrCodeValidation, 400)

		cards.AssertNotCalled(t, "Insert")
	})
}

func TestGetCard(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		svc := services.NewCardService(cards)

		cards.On("Get", mock.Anything, int64(3)).Return(&models.Card{ID: 3, Front: "f", Back: "b"}, nil)

		card, err := svc.GetCard(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), card.ID)
	})

	t.Run("missing", func(t *testing.T) {
		cards := new(mocks.MockCardRepository)
		svc := services.NewCardService(cards)

		cards.On("Get", mock.Anything, int64(3)).Return(nil, nil)

		_, err := svc.GetCard(context.Background(), 3)
		assertAppError(t, err, errors.ErrCodeNotFound, 404)
	})
}
