package handlers

import (
	"net/http"

	"github.com/junimomarket/junimo-market/internal/api/middleware"
	"github.com/junimomarket/junimo-market/internal/errors"
	"github.com/junimomarket/junimo-market/internal/models"
	service "github.com/junimomarket/junimo-market/internal/services"
	"github.com/junimomarket/junimo-market/internal/utils/response"
)

type ProductHandler struct {
	stockService *service.StockService
	cartService  *service.CartService
}

func NewProductHandler(stockService *service.StockService, cartService *service.CartService) *ProductHandler {
	return &ProductHandler{stockService: stockService, cartService: cartService}
}

// Availability returns the display-path stock figure for a product, net
// of the caller's own cart. It never fails on a gateway outage: the last
// cached figure (or zero) carries the display, so browsing stays up even
// when commits would be refused.
func (h *ProductHandler) Availability() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())
		if user == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productCode := r.PathValue("codigo")

		if productCode == "" {
			response.Error(w, errors.BadRequestError("Product code is required"))
			return
		}

		stock := h.stockService.CurrentStock(r.Context(), productCode)
		inCart := models.QuantityOf(h.cartService.GetCart(r.Context(), user.Run), productCode)

		response.Success(w, http.StatusOK, models.AvailabilityResponse{
			Code:      productCode,
			Stock:     stock,
			InCart:    inCart,
			Available: service.AvailableForDisplay(stock, inCart),
		})
	}
}
