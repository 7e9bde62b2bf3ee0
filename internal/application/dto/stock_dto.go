package dto

import "time"

// AssignStockRequest body para POST /api/stock/assign.
type AssignStockRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ItemID      string `json:"item_id"`
	Quantity    int64  `json:"quantity"` // > 0
	Remark      string `json:"remark,omitempty"`
}

// RemoveStockRequest body para POST /api/stock/remove.
type RemoveStockRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ItemID      string `json:"item_id"`
	Quantity    int64  `json:"quantity"` // > 0
	Remark      string `json:"remark,omitempty"`
}

// AdjustStockRequest body para POST /api/stock/adjust. Quantity lleva signo.
type AdjustStockRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ItemID      string `json:"item_id"`
	Quantity    int64  `json:"quantity"` // con signo, != 0
	Remark      string `json:"remark"`
}

// StockMutationResponse resultado de una mutación de stock.
type StockMutationResponse struct {
	WarehouseID string `json:"warehouse_id"`
	ItemID      string `json:"item_id"`
	PreviousQty int64  `json:"previous_qty"`
	NewQty      int64  `json:"new_qty"`
}

// BalanceResponse saldo de un ítem en una bodega.
type BalanceResponse struct {
	WarehouseID string `json:"warehouse_id"`
	ItemID      string `json:"item_id"`
	Quantity    int64  `json:"quantity"`
}

// MovementResponse un registro del log de movimientos.
type MovementResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	WarehouseID string    `json:"warehouse_id,omitempty"`
	Action      string    `json:"action"`
	Quantity    int64     `json:"quantity"`
	PreviousQty int64     `json:"previous_qty"`
	NewQty      int64     `json:"new_qty"`
	Remark      string    `json:"remark,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
