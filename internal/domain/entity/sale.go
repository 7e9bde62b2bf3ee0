package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. La cancelación es la única mutación permitida y es
// de una sola vía (no se puede des-cancelar).
const (
	SaleStatusCOMPLETED = "COMPLETED"
	SaleStatusCANCELLED = "CANCELLED"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Sale representa una venta. Se crea atómicamente junto con sus líneas y los
// débitos de stock correspondientes.
type Sale struct {
	ID            string
	SaleNumber    string // único, secuencia diaria (POS-AAAAMMDD-NNNN)
	WarehouseID   string
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	PaymentMethod string
	Status        string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Lines         []SaleLine
}

// SaleLine es una línea inmutable de una venta.
type SaleLine struct {
	ID        string
	SaleID    string
	ItemID    string
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}
