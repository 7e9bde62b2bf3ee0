package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Bodegas-api/internal/application/ledger"
	"github.com/jhoicas/Bodegas-api/internal/application/sales"
	"github.com/jhoicas/Bodegas-api/internal/application/transfer"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// Ensure TxRunner implements the application tx ports.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del libro de stock, ejecuta fn y
// hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	balanceRepo := NewStockBalanceRepository(tx)
	movRepo := NewMovementRepository(tx)

	if err := fn(balanceRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunTransfer inicia una transacción con repos del libro y de traslados
// (para aprobar: cambio de estado + dos patas por línea en un solo commit).
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	balanceRepo := NewStockBalanceRepository(tx)
	movRepo := NewMovementRepository(tx)
	transferRepo := NewTransferRepository(tx)

	if err := fn(balanceRepo, movRepo, transferRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale inicia una transacción con repos del libro y de ventas (la venta,
// sus líneas y los débitos se confirman juntos).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	balanceRepo := NewStockBalanceRepository(tx)
	movRepo := NewMovementRepository(tx)
	saleRepo := NewSaleRepository(tx)

	if err := fn(balanceRepo, movRepo, saleRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
