package models

// Product is the catalog record as served by the legacy storefront API.
type Product struct {
	Code       string `json:"codigo"`
	Name       string `json:"nombre"`
	Price      int    `json:"precio"`
	OfferPrice *int   `json:"precioOferta,omitempty"`
	OnOffer    bool   `json:"enOferta"`
	Discount   int    `json:"descuento,omitempty"`
	Image      string `json:"imagen,omitempty"`
	Category   string `json:"categoria,omitempty"`

	// The legacy API is inconsistent about the stock field name, so all
	// three spellings are decoded and resolved via CurrentStock.
	StockActual      *int `json:"stockActual,omitempty"`
	StockActualSnake *int `json:"stock_actual,omitempty"`
	Stock            *int `json:"stock,omitempty"`
}

// CurrentStock resolves the stock figure across the field-name variants,
// defaulting to zero when none is present.
func (p *Product) CurrentStock() int {
	switch {
	case p.StockActual != nil:
		return *p.StockActual
	case p.StockActualSnake != nil:
		return *p.StockActualSnake
	case p.Stock != nil:
		return *p.Stock
	default:
		return 0
	}
}

// AvailabilityResponse is the display-path stock figure for one product,
// net of what the caller already holds in their cart. The storefront uses
// it to disable the quantity stepper.
type AvailabilityResponse struct {
	Code      string `json:"codigo"`
	Stock     int    `json:"stock"`
	InCart    int    `json:"enCarrito"`
	Available int    `json:"disponible"`
}

// EffectivePrice is the offer price while the product is on offer, the
// regular price otherwise.
func (p *Product) EffectivePrice() int {
	if p.OnOffer && p.OfferPrice != nil {
		return *p.OfferPrice
	}

	return p.Price
}
