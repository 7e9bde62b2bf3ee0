// Package ledger implementa el libro de cantidades: el contador autoritativo
// de saldo por (bodega, ítem) más su log de movimientos append-only. Toda
// mutación de stock del sistema pasa por ApplyDeltaInTx; ningún otro
// componente escribe saldos directamente.
package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// DeltaResult es el antes/después de un delta aplicado.
type DeltaResult struct {
	Previous int64
	New      int64
}

// ApplyDeltaInTx aplica un delta sobre el saldo (warehouseID, itemID) usando
// los repositorios del caller (misma transacción): bloquea la fila
// (SELECT FOR UPDATE), valida que el resultado no sea negativo, actualiza el
// saldo (creando la fila si no existe) y registra exactamente un movimiento.
// Un traslado invoca esto dos veces, una por pata, dentro de la misma tx.
func ApplyDeltaInTx(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
	warehouseID, itemID string,
	delta int64,
	action, remark, userID string,
	now time.Time,
) (*DeltaResult, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}

	balance, err := balanceRepo.GetForUpdate(warehouseID, itemID)
	if err != nil {
		return nil, err
	}
	previous := balance.Quantity
	newQty := previous + delta
	if newQty < 0 {
		return nil, &domain.InsufficientStockError{
			WarehouseID: warehouseID,
			ItemID:      itemID,
			Available:   previous,
			Requested:   -delta,
		}
	}

	balance.Quantity = newQty
	balance.UpdatedAt = now
	if err := balanceRepo.Upsert(balance); err != nil {
		return nil, err
	}

	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	mov := &entity.Movement{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Action:      action,
		Quantity:    magnitude,
		PreviousQty: previous,
		NewQty:      newQty,
		Remark:      remark,
		CreatedBy:   userID,
		CreatedAt:   now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return &DeltaResult{Previous: previous, New: newQty}, nil
}

// Ledger expone el contrato del libro: lectura de saldo y aplicación atómica
// de deltas (cada una abre su propia transacción vía TxRunner).
type Ledger struct {
	txRunner    TxRunner
	balanceRepo repository.StockBalanceRepository // atado al pool, sólo lecturas
}

// NewLedger construye el libro de cantidades.
func NewLedger(txRunner TxRunner, balanceRepo repository.StockBalanceRepository) *Ledger {
	return &Ledger{txRunner: txRunner, balanceRepo: balanceRepo}
}

// GetBalance devuelve el saldo actual (0 si no existe fila).
func (l *Ledger) GetBalance(ctx context.Context, warehouseID, itemID string) (int64, error) {
	balance, err := l.balanceRepo.Get(warehouseID, itemID)
	if err != nil {
		return 0, err
	}
	return balance.Quantity, nil
}

// ApplyDelta abre una transacción y aplica el delta con ApplyDeltaInTx.
// Falla con InsufficientStockError si el resultado sería negativo; en ese
// caso no queda ninguna escritura.
func (l *Ledger) ApplyDelta(ctx context.Context, warehouseID, itemID string, delta int64, action, remark, userID string) (*DeltaResult, error) {
	var result *DeltaResult
	err := l.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
	) error {
		r, err := ApplyDeltaInTx(balanceRepo, movRepo, warehouseID, itemID, delta, action, remark, userID, time.Now())
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
