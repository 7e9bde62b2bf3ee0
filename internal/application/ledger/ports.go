package ledger

import (
	"context"

	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de stock:
// o se aplican el saldo y su movimiento, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
	) error) error
}
