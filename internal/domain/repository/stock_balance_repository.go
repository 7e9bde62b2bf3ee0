package repository

import "github.com/jhoicas/Bodegas-api/internal/domain/entity"

// StockBalanceRepository define el puerto para consultar/actualizar el saldo
// por bodega+ítem. Usado dentro de transacciones para garantizar consistencia.
// Get y GetForUpdate nunca devuelven nil: la ausencia de fila se representa
// con cantidad 0.
type StockBalanceRepository interface {
	Get(warehouseID, itemID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Si la
	// fila no existe, el adaptador debe materializarla en cero antes de
	// bloquear: dos creaciones concurrentes del mismo par también deben
	// quedar serializadas.
	GetForUpdate(warehouseID, itemID string) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockBalance, error)
	// TotalByItem suma el stock del ítem en todas las bodegas.
	TotalByItem(itemID string) (int64, error)
}
