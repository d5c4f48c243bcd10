package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/junimomarket/junimo-market/internal/api/handlers"
	"github.com/junimomarket/junimo-market/internal/cartstore"
	"github.com/junimomarket/junimo-market/internal/errors"
	"github.com/junimomarket/junimo-market/internal/models"
	service "github.com/junimomarket/junimo-market/internal/services"
	"github.com/junimomarket/junimo-market/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticNumbers struct{}

func (staticNumbers) Next(context.Context) string { return "SO000042" }

type checkoutHandlerFixture struct {
	catalog *fakeCatalog
	store   *cartstore.Store
	handler *handlers.CheckoutHandler
}

func newCheckoutHandlerFixture() *checkoutHandlerFixture {
	catalogFake := &fakeCatalog{products: map[string]*models.Product{}}
	store := cartstore.NewStore(&mapPersistence{lines: map[string][]models.CartLine{}}, cartstore.NewBus())
	stock := service.NewStockService(catalogFake, &mapCache{values: map[string][]byte{}})
	pricing := service.NewPricingService(pricingConfig(), service.DefaultDiscountCodes())

	checkout := service.NewCheckoutService(store, stock, pricing, catalogFake, staticNumbers{}, nil, nil)

	return &checkoutHandlerFixture{
		catalog: catalogFake,
		store:   store,
		handler: handlers.NewCheckoutHandler(checkout),
	}
}

func (f *checkoutHandlerFixture) seed(t *testing.T, stock int, lines ...models.CartLine) {
	t.Helper()

	for _, line := range lines {
		f.catalog.products[line.Code] = &models.Product{
			Code: line.Code, Name: line.Name, Price: line.UnitPrice, StockActual: &stock,
		}
	}

	require.NoError(t, f.store.Save(context.Background(), testRun, lines))
}

func TestCheckoutHandler(t *testing.T) {

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		f := newCheckoutHandlerFixture()
		rec := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/checkout", nil, nil)

		f.handler.Checkout().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("creates an order without a request body", func(t *testing.T) {
		f := newCheckoutHandlerFixture()
		f.seed(t, 5, models.CartLine{Code: "A1", Name: "Semillas", Quantity: 2, UnitPrice: 10000})

		rec := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout", nil, testRun, nil)

		f.handler.Checkout().ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var envelope struct {
			Success bool         `json:"success"`
			Data    models.Order `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, "SO000042", envelope.Data.Number)
		assert.Equal(t, 23990, envelope.Data.Total)
		assert.Empty(t, f.store.Get(context.Background(), testRun))
	})

	t.Run("applies a discount code from the body", func(t *testing.T) {
		f := newCheckoutHandlerFixture()
		f.seed(t, 5, models.CartLine{Code: "A1", Name: "Semillas", Quantity: 2, UnitPrice: 10000})

		rec := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout",
			bytes.NewBufferString(`{"codigoDescuento":"SV2500"}`), testRun, nil)

		f.handler.Checkout().ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, f.catalog.created, 1)
		assert.Equal(t, 21490, f.catalog.created[0].Total)
	})

	t.Run("empty cart is a client error", func(t *testing.T) {
		f := newCheckoutHandlerFixture()

		rec := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout", nil, testRun, nil)

		f.handler.Checkout().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeResponse(t, rec)
		assert.Equal(t, errors.ErrCodeEmptyCart, envelope.Error.Code)
	})

	t.Run("submission failure keeps the cart and maps to bad gateway", func(t *testing.T) {
		f := newCheckoutHandlerFixture()
		f.seed(t, 5, models.CartLine{Code: "A1", Name: "Semillas", Quantity: 1, UnitPrice: 10000})
		f.catalog.createOrderErr = errors.GatewayError("Catalog gateway returned status 500").
			WithDetail("ORA-12170: connect timeout")

		rec := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout", nil, testRun, nil)

		f.handler.Checkout().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		envelope := decodeResponse(t, rec)
		assert.Equal(t, errors.ErrCodeOrderSubmissionFailed, envelope.Error.Code)
		assert.Len(t, f.store.Get(context.Background(), testRun), 1)
	})

	t.Run("malformed body is rejected before the workflow runs", func(t *testing.T) {
		f := newCheckoutHandlerFixture()
		f.seed(t, 5, models.CartLine{Code: "A1", Name: "Semillas", Quantity: 1, UnitPrice: 10000})

		rec := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/checkout",
			bytes.NewBufferString(`{not json`), testRun, nil)

		f.handler.Checkout().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.catalog.created)
	})
}
