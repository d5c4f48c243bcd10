package models

// ShippingStatusPending is the initial state of every submitted order.
// The value is Spanish because the back-office stores it verbatim.
const ShippingStatusPending = "Pendiente"

// OrderDateLayout is the wire format for order dates.
const OrderDateLayout = "2006-01-02"

type OrderUserRef struct {
	Run string `json:"run"`
}

type OrderProductRef struct {
	Code string `json:"codigo"`
}

// OrderLine carries product reference and quantity only. Prices are
// resolved server-side from the product record, never duplicated here.
type OrderLine struct {
	Product  OrderProductRef `json:"producto"`
	Quantity int             `json:"cantidad"`
}

// Order is the submission payload for the legacy order endpoint and the
// echoed record it returns. Immutable from the cart's point of view once
// created.
type Order struct {
	Number         string       `json:"numeroOrden"`
	Date           string       `json:"fecha"`
	User           OrderUserRef `json:"usuario"`
	ShippingStatus string       `json:"estadoEnvio"`
	Total          int          `json:"total"`
	Lines          []OrderLine  `json:"detalles"`
}
