package sales

import (
	"context"

	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repos del libro de stock y el de ventas: la venta, sus líneas y los
// débitos se confirman o descartan juntos.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptGenerator genera la representación PDF del recibo de una venta.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, sale *entity.Sale, warehouse *entity.Warehouse, items map[string]*entity.Item) ([]byte, error)
}
