package entity

import "time"

// StockBalance representa el saldo actual de un ítem en una bodega.
// Única por par (WarehouseID, ItemID); se crea de forma perezosa en la
// primera asignación. Invariante: Quantity >= 0 siempre; la ausencia de
// fila equivale a cantidad 0.
type StockBalance struct {
	WarehouseID string
	ItemID      string
	Quantity    int64
	UpdatedAt   time.Time
}
