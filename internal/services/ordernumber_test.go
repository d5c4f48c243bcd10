package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/junimomarket/junimo-market/internal/models"
	service "github.com/junimomarket/junimo-market/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestSequentialOrderNumbers(t *testing.T) {
	ctx := context.Background()

	t.Run("continues from the highest existing number", func(t *testing.T) {
		catalogMock := &mockCatalog{}
		catalogMock.On("ListOrders", ctx).Return([]models.Order{
			{Number: "SO000003"},
			{Number: "SO000119"},
			{Number: "SO000042"},
		}, nil)

		numbers := service.NewSequentialOrderNumbers(catalogMock)

		assert.Equal(t, "SO000120", numbers.Next(ctx))
	})

	t.Run("starts at one with no prior orders", func(t *testing.T) {
		catalogMock := &mockCatalog{}
		catalogMock.On("ListOrders", ctx).Return([]models.Order{}, nil)

		numbers := service.NewSequentialOrderNumbers(catalogMock)

		assert.Equal(t, "SO000001", numbers.Next(ctx))
	})

	t.Run("ignores foreign and malformed numbers", func(t *testing.T) {
		catalogMock := &mockCatalog{}
		catalogMock.On("ListOrders", ctx).Return([]models.Order{
			{Number: "ORD-77"},
			{Number: "SOabc"},
			{Number: ""},
			{Number: "SO000007"},
		}, nil)

		numbers := service.NewSequentialOrderNumbers(catalogMock)

		assert.Equal(t, "SO000008", numbers.Next(ctx))
	})

	t.Run("falls back to a timestamp identifier when the scan fails", func(t *testing.T) {
		catalogMock := &mockCatalog{}
		catalogMock.On("ListOrders", ctx).Return(nil, errors.New("gateway down"))

		numbers := service.NewSequentialOrderNumbers(catalogMock)

		got := numbers.Next(ctx)

		assert.True(t, strings.HasPrefix(got, "SO"))
		// Millisecond timestamp plus random suffix is far longer than the
		// six-digit sequential form.
		assert.Greater(t, len(got), len("SO000001"))
	})
}
