package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un ítem del catálogo. El SKU es único e inmutable después
// de la creación; el ítem se desactiva (Active=false), nunca se borra
// mientras tenga stock en alguna bodega.
type Item struct {
	ID            string
	SKU           string
	Name          string
	Description   string
	CategoryID    string
	UnitMeasure   string          // unidad de medida (UND, KG, LT, ...)
	MinStock      int64           // umbral de stock mínimo
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	TaxRate       decimal.Decimal // 0, 0.05, 0.19
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
