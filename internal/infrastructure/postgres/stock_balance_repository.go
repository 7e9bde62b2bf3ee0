package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// Get obtiene el saldo actual de un ítem en una bodega (0 si no hay fila).
func (r *StockBalanceRepo) Get(warehouseID, itemID string) (*entity.StockBalance, error) {
	query := `
		SELECT warehouse_id, item_id, quantity, updated_at
		FROM stock_balances WHERE warehouse_id = $1 AND item_id = $2`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, warehouseID, itemID).Scan(
		&b.WarehouseID, &b.ItemID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{WarehouseID: warehouseID, ItemID: itemID, Quantity: 0}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE) para
// serializar mutaciones concurrentes sobre el mismo par. Una fila ausente no
// se puede bloquear: dos primeras asignaciones concurrentes leerían ambas 0 y
// la segunda pisaría a la primera. Por eso la fila se materializa en cero
// antes de bloquear; si otra tx la está insertando, el INSERT espera su
// commit y el SELECT posterior ya la encuentra.
func (r *StockBalanceRepo) GetForUpdate(warehouseID, itemID string) (*entity.StockBalance, error) {
	ctx := context.Background()
	insert := `
		INSERT INTO stock_balances (warehouse_id, item_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (warehouse_id, item_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, warehouseID, itemID); err != nil {
		return nil, fmt.Errorf("materialize stock balance: %w", err)
	}
	query := `
		SELECT warehouse_id, item_id, quantity, updated_at
		FROM stock_balances WHERE warehouse_id = $1 AND item_id = $2
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, warehouseID, itemID).Scan(
		&b.WarehouseID, &b.ItemID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza la cantidad (por bodega e ítem). El CHECK
// quantity >= 0 de la tabla respalda el invariante del libro.
func (r *StockBalanceRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (warehouse_id, item_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (warehouse_id, item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, balance.WarehouseID, balance.ItemID, balance.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// ListByWarehouse lista los saldos de una bodega.
func (r *StockBalanceRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockBalance, error) {
	query := `
		SELECT warehouse_id, item_id, quantity, updated_at
		FROM stock_balances WHERE warehouse_id = $1
		ORDER BY item_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.WarehouseID, &b.ItemID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// TotalByItem suma el stock del ítem en todas las bodegas.
func (r *StockBalanceRepo) TotalByItem(itemID string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_balances WHERE item_id = $1`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, itemID).Scan(&total); err != nil {
		return 0, fmt.Errorf("total stock by item: %w", err)
	}
	return total, nil
}
