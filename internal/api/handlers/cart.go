package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/junimomarket/junimo-market/internal/api/middleware"
	"github.com/junimomarket/junimo-market/internal/errors"
	"github.com/junimomarket/junimo-market/internal/metrics"
	"github.com/junimomarket/junimo-market/internal/models"
	service "github.com/junimomarket/junimo-market/internal/services"
	"github.com/junimomarket/junimo-market/internal/utils"
	"github.com/junimomarket/junimo-market/internal/utils/response"
)

type CartHandler struct {
	cartService    *service.CartService
	pricingService *service.PricingService
	validator      *validator.Validate
}

func NewCartHandler(cartService *service.CartService, pricingService *service.PricingService) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		pricingService: pricingService,
		validator:      validator.New(),
	}
}

// GetCart returns the cart lines plus the pricing breakdown. An optional
// ?codigo= query applies a discount code to the quote; a rejected code
// degrades to a field-level error, never an unviewable cart.
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())
		if user == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		lines := h.cartService.GetCart(r.Context(), user.Run)

		codeError := ""

		quote, err := h.pricingService.ComputeQuote(lines, user, r.URL.Query().Get("codigo"))
		if err != nil {

			if !errors.HasCode(err, errors.ErrCodeInvalidDiscountCode) {
				response.Error(w, err)
				return
			}

			codeError = err.Error()

			quote, err = h.pricingService.ComputeQuote(lines, user, "")
			if err != nil {
				response.Error(w, err)
				return
			}
		}

		response.Success(w, http.StatusOK, models.CartResponse{
			Items:      lines,
			TotalItems: models.TotalItems(lines),
			Quote:      quote,
			CodeError:  codeError,
		})
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())
		if user == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddItemRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		lines, err := h.cartService.AddToCart(r.Context(), user.Run, req.Code, req.Quantity)
		metrics.RecordCartMutation("add", err)

		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Add to cart rejected", "error", err.Error())
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.CartResponse{Items: lines, TotalItems: models.TotalItems(lines)})
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())
		if user == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.UpdateQuantityRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		lines, err := h.cartService.UpdateQuantity(r.Context(), user.Run, req.Code, req.Quantity)
		metrics.RecordCartMutation("update", err)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.CartResponse{Items: lines, TotalItems: models.TotalItems(lines)})
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
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

		lines, err := h.cartService.RemoveItem(r.Context(), user.Run, productCode)
		metrics.RecordCartMutation("remove", err)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.CartResponse{Items: lines, TotalItems: models.TotalItems(lines)})
	}
}

func (h *CartHandler) EmptyCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())
		if user == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		err := h.cartService.EmptyCart(r.Context(), user.Run)
		metrics.RecordCartMutation("empty", err)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.CartResponse{Items: []models.CartLine{}})
	}
}

// RefreshProducts re-reads every line from the catalog, picking up price
// and offer changes while keeping quantities.
func (h *CartHandler) RefreshProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())
		if user == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		lines, err := h.cartService.RefreshProducts(r.Context(), user.Run)
		metrics.RecordCartMutation("refresh", err)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.CartResponse{Items: lines, TotalItems: models.TotalItems(lines)})
	}
}
