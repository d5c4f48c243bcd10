package service

import (
	"math"
	"strings"

	"github.com/junimomarket/junimo-market/internal/config"
	"github.com/junimomarket/junimo-market/internal/errors"
	"github.com/junimomarket/junimo-market/internal/models"
)

// DefaultDiscountCodes is the storefront's static code table.
func DefaultDiscountCodes() []models.DiscountCode {
	return []models.DiscountCode{
		{Code: "SV2500", Kind: models.DiscountFixed, Value: 2500, MinPurchase: 0, Description: "Descuento especial de $2.500"},
		{Code: "DUOC20", Kind: models.DiscountPercentage, Value: 20, MinPurchase: 0, Description: "20% de descuento DUOC"},
		{Code: "ENVIOGRATIS", Kind: models.DiscountShippingWaiver, Value: 3990, MinPurchase: 0, Description: "Envío gratis"},
	}
}

// PricingService computes quotes as a pure function of cart, user and
// applied code. The composition is deliberately flat: at most one
// eligibility discount and at most one code discount, each taken from the
// subtotal independently, then combined linearly with the shipping term.
type PricingService struct {
	cfg   *config.Pricing
	codes map[string]models.DiscountCode
}

func NewPricingService(cfg *config.Pricing, codes []models.DiscountCode) *PricingService {

	table := make(map[string]models.DiscountCode, len(codes))

	for _, code := range codes {
		table[code.Code] = code
	}

	return &PricingService{cfg: cfg, codes: table}
}

func (p *PricingService) Subtotal(lines []models.CartLine) int {

	var subtotal int

	for i := range lines {
		subtotal += lines[i].EffectiveUnitPrice() * lines[i].Quantity
	}

	return subtotal
}

// ShippingFee is zero strictly above the free-shipping threshold; a
// subtotal exactly at the threshold still pays the flat fee.
func (p *PricingService) ShippingFee(subtotal int) int {

	if subtotal > p.cfg.FreeShippingThreshold {
		return 0
	}

	return p.cfg.FlatShippingFee
}

// IsEligible grants the institutional discount based on the email domain.
func (p *PricingService) IsEligible(user *models.User) bool {

	if user == nil || user.Email == "" {
		return false
	}

	email := strings.ToLower(user.Email)

	for _, domain := range p.cfg.EligibleDomains {
		if strings.HasSuffix(email, "@"+strings.ToLower(domain)) {
			return true
		}
	}

	return false
}

func (p *PricingService) eligibilityDiscount(user *models.User, subtotal int) int {

	if !p.IsEligible(user) {
		return 0
	}

	return int(math.Round(float64(subtotal) * float64(p.cfg.EligibilityPercent) / 100))
}

// LookupCode resolves a user-entered discount code against the table.
func (p *PricingService) LookupCode(code string) (*models.DiscountCode, error) {

	discount, ok := p.codes[code]
	if !ok {
		return nil, errors.InvalidDiscountCodeError(code)
	}

	return &discount, nil
}

func codeDiscountAmount(discount *models.DiscountCode, subtotal int) int {

	switch discount.Kind {
	case models.DiscountFixed:
		if discount.Value > subtotal {
			return subtotal
		}

		return discount.Value
	case models.DiscountPercentage:
		return subtotal * discount.Value / 100
	case models.DiscountShippingWaiver:
		// Contributes nothing to the monetary discount; the waiver
		// zeroes the shipping term instead.
		return 0
	default:
		return 0
	}
}

// ComputeQuote prices the cart. An unknown code, or one whose minimum
// purchase is not met, fails the whole computation with
// INVALID_DISCOUNT_CODE rather than being silently ignored.
func (p *PricingService) ComputeQuote(lines []models.CartLine, user *models.User, appliedCode string) (*models.Quote, error) {

	subtotal := p.Subtotal(lines)
	shipping := p.ShippingFee(subtotal)
	eligibility := p.eligibilityDiscount(user, subtotal)

	var codeDiscount int

	if appliedCode != "" {

		discount, err := p.LookupCode(appliedCode)
		if err != nil {
			return nil, err
		}

		if subtotal < discount.MinPurchase {
			return nil, errors.InvalidDiscountCodeError(appliedCode).
				WithDetail("Subtotal below the code's minimum purchase")
		}

		if discount.Kind == models.DiscountShippingWaiver {
			shipping = 0
		}

		codeDiscount = codeDiscountAmount(discount, subtotal)
	}

	total := subtotal - eligibility - codeDiscount + shipping
	if total < 0 {
		total = 0
	}

	return &models.Quote{
		Subtotal:            subtotal,
		Shipping:            shipping,
		EligibilityDiscount: eligibility,
		CodeDiscount:        codeDiscount,
		AppliedCode:         appliedCode,
		Total:               total,
	}, nil
}
