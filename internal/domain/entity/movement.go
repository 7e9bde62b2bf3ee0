package entity

import "time"

// Acciones de movimiento de stock.
const (
	ActionADD         = "ADD"          // asignación / entrada
	ActionREMOVE      = "REMOVE"       // retiro manual
	ActionTRANSFEROUT = "TRANSFER_OUT" // salida por traslado (bodega origen)
	ActionTRANSFERIN  = "TRANSFER_IN"  // entrada por traslado (bodega destino)
	ActionADJUSTMENT  = "ADJUSTMENT"   // ajuste con signo
	ActionSALE        = "SALE"         // débito por venta
)

// Movement es un registro inmutable del log de movimientos (append-only).
// Invariante: NewQty = PreviousQty ± Quantity según la acción; una vez
// escrito nunca se modifica ni se borra. Es la pista de auditoría y la
// única forma de reconstruir el histórico de saldos.
type Movement struct {
	ID          string
	ItemID      string
	WarehouseID string // vacío para acciones no ligadas a una bodega
	Action      string
	Quantity    int64 // magnitud del delta, siempre > 0
	PreviousQty int64
	NewQty      int64
	Remark      string
	CreatedBy   string // UserID
	CreatedAt   time.Time
}
