package handlers

import (
	"log/slog"
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

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validator:       validator.New(),
	}
}

// Checkout runs the submission workflow for the caller's cart. The body
// is optional; when present it may carry a discount code.
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		user := middleware.UserFromContext(r.Context())
		if user == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CheckoutRequest

		if r.ContentLength > 0 {
			if err := utils.DecodeJSONBody(r, &req); err != nil {
				response.WriteJson(w, http.StatusBadRequest, response.GeneralError(err))
				return
			}
		}

		order, err := h.checkoutService.Checkout(r.Context(), user, req.DiscountCode)
		if err != nil {

			outcome := "error"

			if appErr, ok := errors.IsAppError(err); ok {
				outcome = appErr.Code
			}

			metrics.RecordCheckout(outcome)
			logger.Warn("Checkout failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		metrics.RecordCheckout("succeeded")
		logger.Info("Checkout completed", slog.String("order", order.Number), slog.Int("total", order.Total))
		response.Success(w, http.StatusCreated, order)
	}
}
