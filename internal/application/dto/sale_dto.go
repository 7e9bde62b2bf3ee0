package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. UnitPrice opcional: si es nil se usa el
// precio de venta del ítem.
type SaleLineRequest struct {
	ItemID    string           `json:"item_id"`
	Quantity  int64            `json:"quantity"` // > 0
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	WarehouseID   string            `json:"warehouse_id"`
	PaymentMethod string            `json:"payment_method"`
	Lines         []SaleLineRequest `json:"lines"`
}

// SaleLineResponse línea de una venta persistida.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleResponse una venta con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNumber    string             `json:"sale_number"`
	WarehouseID   string             `json:"warehouse_id"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	Lines         []SaleLineResponse `json:"lines"`
}
