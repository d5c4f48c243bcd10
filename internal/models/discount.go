package models

type DiscountKind string

const (
	DiscountFixed          DiscountKind = "fixed"
	DiscountPercentage     DiscountKind = "percentage"
	DiscountShippingWaiver DiscountKind = "shipping"
)

// DiscountCode is immutable reference data keyed by the user-entered code.
type DiscountCode struct {
	Code        string       `json:"codigo"`
	Kind        DiscountKind `json:"tipo"`
	Value       int          `json:"valor"`
	MinPurchase int          `json:"compraMinima"`
	Description string       `json:"descripcion"`
}

// Quote is the full pricing breakdown for a cart, user and optional code.
type Quote struct {
	Subtotal            int    `json:"subtotal"`
	Shipping            int    `json:"envio"`
	EligibilityDiscount int    `json:"descuentoDuoc"`
	CodeDiscount        int    `json:"descuentoCodigo"`
	AppliedCode         string `json:"codigoAplicado,omitempty"`
	Total               int    `json:"total"`
}
