package transfer

import (
	"context"

	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repos del libro de stock y el de traslados. La aprobación usa esto para
// que el cambio de estado y las dos patas de cada línea sean un solo commit.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
