package models

// CartLine is one product's presence in a cart. Lines are unique per
// product code and keep their insertion order for display.
type CartLine struct {
	Code       string `json:"codigo"`
	Name       string `json:"nombre"`
	Quantity   int    `json:"cantidad"`
	UnitPrice  int    `json:"precio"`
	OfferPrice *int   `json:"precioOferta,omitempty"`
	OnOffer    bool   `json:"enOferta"`
	Discount   int    `json:"descuento,omitempty"`
	Image      string `json:"imagen,omitempty"`

	// StockSnapshot is the stock figure known at add time. Advisory only:
	// quantity-increasing mutations always re-verify against the catalog.
	StockSnapshot int `json:"stockSnapshot"`
}

// EffectiveUnitPrice is the offer price while the line is on offer, the
// regular price otherwise.
func (l *CartLine) EffectiveUnitPrice() int {
	if l.OnOffer && l.OfferPrice != nil {
		return *l.OfferPrice
	}

	return l.UnitPrice
}

// NewCartLine builds a line from the current catalog record, copying the
// offer state so the cart keeps charging the price seen at add time.
func NewCartLine(product *Product, quantity int) CartLine {
	return CartLine{
		Code:          product.Code,
		Name:          product.Name,
		Quantity:      quantity,
		UnitPrice:     product.Price,
		OfferPrice:    product.OfferPrice,
		OnOffer:       product.OnOffer,
		Discount:      product.Discount,
		Image:         product.Image,
		StockSnapshot: product.CurrentStock(),
	}
}

// QuantityOf returns the quantity of the given product in the cart, zero
// when absent.
func QuantityOf(lines []CartLine, productCode string) int {
	for _, line := range lines {
		if line.Code == productCode {
			return line.Quantity
		}
	}

	return 0
}

// TotalItems sums quantities across lines (the cart badge counter).
func TotalItems(lines []CartLine) int {
	var total int

	for _, line := range lines {
		total += line.Quantity
	}

	return total
}

type AddItemRequest struct {
	Code     string `json:"codigo" validate:"required"`
	Quantity int    `json:"cantidad" validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	Code     string `json:"codigo" validate:"required"`
	Quantity int    `json:"cantidad" validate:"required,min=1"`
}

type ValidateDiscountRequest struct {
	Code string `json:"codigo" validate:"required"`
}

type CheckoutRequest struct {
	DiscountCode string `json:"codigoDescuento,omitempty"`
}

type CartResponse struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	Quote      *Quote     `json:"resumen,omitempty"`

	// CodeError carries a rejected discount code as a field-level message
	// so the cart itself stays viewable.
	CodeError string `json:"errorCodigo,omitempty"`
}
