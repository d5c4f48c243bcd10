package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/junimomarket/junimo-market/internal/models"
	service "github.com/junimomarket/junimo-market/internal/services"
	"github.com/junimomarket/junimo-market/internal/utils"
	"github.com/junimomarket/junimo-market/internal/utils/response"
)

type DiscountHandler struct {
	pricingService *service.PricingService
	validator      *validator.Validate
}

func NewDiscountHandler(pricingService *service.PricingService) *DiscountHandler {
	return &DiscountHandler{
		pricingService: pricingService,
		validator:      validator.New(),
	}
}

// Validate resolves a user-entered discount code. An unknown code is a
// field-level rejection, not a server error.
func (h *DiscountHandler) Validate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.ValidateDiscountRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		discount, err := h.pricingService.LookupCode(req.Code)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, discount)
	}
}
