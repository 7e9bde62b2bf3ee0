package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	UnitMeasure   string          `json:"unit_measure,omitempty"`
	MinStock      int64           `json:"min_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
}

// UpdateItemRequest body para PUT /api/items/:id. El SKU no se puede cambiar.
type UpdateItemRequest struct {
	Name          string           `json:"name,omitempty"`
	Description   string           `json:"description,omitempty"`
	CategoryID    string           `json:"category_id,omitempty"`
	UnitMeasure   string           `json:"unit_measure,omitempty"`
	MinStock      *int64           `json:"min_stock,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
}

// ItemResponse un ítem del catálogo.
type ItemResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	UnitMeasure   string          `json:"unit_measure,omitempty"`
	MinStock      int64           `json:"min_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
