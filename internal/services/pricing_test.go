package service_test

import (
	"testing"

	"github.com/junimomarket/junimo-market/internal/config"
	appErrors "github.com/junimomarket/junimo-market/internal/errors"
	"github.com/junimomarket/junimo-market/internal/models"
	service "github.com/junimomarket/junimo-market/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPricingConfig() *config.Pricing {
	return &config.Pricing{
		FreeShippingThreshold: 30000,
		FlatShippingFee:       3990,
		EligibilityPercent:    20,
		EligibleDomains:       []string{"duoc.cl", "duocuc.cl"},
	}
}

func newPricing() *service.PricingService {
	return service.NewPricingService(defaultPricingConfig(), service.DefaultDiscountCodes())
}

func line(code string, price, qty int) models.CartLine {
	return models.CartLine{Code: code, Name: code, Quantity: qty, UnitPrice: price}
}

func eligibleUser() *models.User {
	return &models.User{Run: "11111111-1", Email: "alumno@duoc.cl"}
}

func regularUser() *models.User {
	return &models.User{Run: "22222222-2", Email: "cliente@gmail.com"}
}

func TestComputeQuoteScenarios(t *testing.T) {
	pricing := newPricing()

	t.Run("eligibility discount below free shipping", func(t *testing.T) {
		// 2 x 10000 = 20000, 20% off, flat shipping
		quote, err := pricing.ComputeQuote([]models.CartLine{line("A1", 10000, 2)}, eligibleUser(), "")

		require.NoError(t, err)
		assert.Equal(t, 20000, quote.Subtotal)
		assert.Equal(t, 4000, quote.EligibilityDiscount)
		assert.Equal(t, 0, quote.CodeDiscount)
		assert.Equal(t, 3990, quote.Shipping)
		assert.Equal(t, 19990, quote.Total)
	})

	t.Run("fixed code without eligibility", func(t *testing.T) {
		quote, err := pricing.ComputeQuote([]models.CartLine{line("A1", 10000, 2)}, regularUser(), "SV2500")

		require.NoError(t, err)
		assert.Equal(t, 2500, quote.CodeDiscount)
		assert.Equal(t, 0, quote.EligibilityDiscount)
		assert.Equal(t, 21490, quote.Total)
	})

	t.Run("free shipping above threshold", func(t *testing.T) {
		quote, err := pricing.ComputeQuote([]models.CartLine{line("B2", 35000, 1)}, regularUser(), "")

		require.NoError(t, err)
		assert.Equal(t, 0, quote.Shipping)
		assert.Equal(t, 35000, quote.Total)
	})

	t.Run("percentage code", func(t *testing.T) {
		quote, err := pricing.ComputeQuote([]models.CartLine{line("A1", 10000, 2)}, regularUser(), "DUOC20")

		require.NoError(t, err)
		assert.Equal(t, 4000, quote.CodeDiscount)
		assert.Equal(t, 19990, quote.Total)
	})

	t.Run("offer price used when line is on offer", func(t *testing.T) {
		offer := 8000
		onOffer := models.CartLine{Code: "C3", Quantity: 2, UnitPrice: 10000, OfferPrice: &offer, OnOffer: true}

		quote, err := pricing.ComputeQuote([]models.CartLine{onOffer}, regularUser(), "")

		require.NoError(t, err)
		assert.Equal(t, 16000, quote.Subtotal)
	})

	t.Run("unknown code is rejected, not ignored", func(t *testing.T) {
		quote, err := pricing.ComputeQuote([]models.CartLine{line("A1", 10000, 2)}, regularUser(), "NOPE")

		require.Error(t, err)
		assert.Nil(t, quote)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInvalidDiscountCode))
	})

	t.Run("code below minimum purchase is rejected", func(t *testing.T) {
		withMin := service.NewPricingService(defaultPricingConfig(), []models.DiscountCode{
			{Code: "BIG10", Kind: models.DiscountPercentage, Value: 10, MinPurchase: 50000},
		})

		quote, err := withMin.ComputeQuote([]models.CartLine{line("A1", 10000, 2)}, regularUser(), "BIG10")

		require.Error(t, err)
		assert.Nil(t, quote)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInvalidDiscountCode))
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		lines := []models.CartLine{line("A1", 10000, 2), line("B2", 5000, 1)}

		first, err := pricing.ComputeQuote(lines, eligibleUser(), "SV2500")
		require.NoError(t, err)

		second, err := pricing.ComputeQuote(lines, eligibleUser(), "SV2500")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestShippingBoundary(t *testing.T) {
	pricing := newPricing()

	tests := []struct {
		name     string
		subtotal int
		wantFee  int
	}{
		{"below threshold", 29999, 3990},
		{"exactly at threshold still pays", 30000, 3990},
		{"just above threshold is free", 30001, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFee, pricing.ShippingFee(tt.subtotal))
		})
	}
}

func TestShippingWaiverOverridesThreshold(t *testing.T) {
	pricing := newPricing()

	// Even an empty cart pays no shipping once the waiver applies.
	quote, err := pricing.ComputeQuote(nil, regularUser(), "ENVIOGRATIS")

	require.NoError(t, err)
	assert.Equal(t, 0, quote.Subtotal)
	assert.Equal(t, 0, quote.Shipping)
	assert.Equal(t, 0, quote.CodeDiscount)
	assert.Equal(t, 0, quote.Total)
}

func TestTotalClampedAtZero(t *testing.T) {

	// No shipping term, so stacked discounts can exceed the subtotal.
	cfg := defaultPricingConfig()
	cfg.FlatShippingFee = 0
	pricing := service.NewPricingService(cfg, service.DefaultDiscountCodes())

	quote, err := pricing.ComputeQuote([]models.CartLine{line("A1", 2000, 1)}, eligibleUser(), "SV2500")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, quote.Total, 0)
	assert.Equal(t, 0, quote.Total)
}

func TestIsEligible(t *testing.T) {
	pricing := newPricing()

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"duoc domain", &models.User{Email: "a@duoc.cl"}, true},
		{"duocuc domain", &models.User{Email: "a@duocuc.cl"}, true},
		{"mixed case", &models.User{Email: "A@DUOC.CL"}, true},
		{"other domain", &models.User{Email: "a@gmail.com"}, false},
		{"domain as substring only", &models.User{Email: "a@notduoc.cl.evil.com"}, false},
		{"empty email", &models.User{}, false},
		{"nil user", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.IsEligible(tt.user))
		})
	}
}
