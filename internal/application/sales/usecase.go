// Package sales implementa la creación y cancelación de ventas. Una venta
// debita varias líneas atómicamente (todas o ninguna); la cancelación las
// acredita de vuelta y es de una sola vía.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/ledger"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UseCase creación, cancelación y consulta de ventas.
type UseCase struct {
	txRunner      TxRunner
	saleRepo      repository.SaleRepository
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	balanceRepo   repository.StockBalanceRepository // atado al pool, pre-chequeos
	receipts      ReceiptGenerator
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	balanceRepo repository.StockBalanceRepository,
	receipts ReceiptGenerator,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		saleRepo:      saleRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		balanceRepo:   balanceRepo,
		receipts:      receipts,
	}
}

// Create registra una venta: valida bodega y alcance del actor (staff sólo
// vende desde su bodega asignada), pre-chequea el saldo de cada línea y en
// una sola transacción genera el consecutivo diario, debita cada línea
// (acción SALE) y persiste cabecera y líneas. Si una línea no tiene saldo,
// la transacción entera se descarta.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if actor.Role == entity.RoleStaff && actor.WarehouseID != in.WarehouseID {
		return nil, domain.ErrForbidden
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if !wh.Active {
		return nil, domain.ErrInvalidInput
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = entity.PaymentCash
	}

	// Resolver ítems y precios fuera de la tx (sólo lectura).
	itemsByID := make(map[string]*entity.Item, len(in.Lines))
	for _, line := range in.Lines {
		if line.ItemID == "" {
			return nil, domain.ErrInvalidInput
		}
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		if !item.Active {
			return nil, domain.ErrInvalidInput
		}
		if line.UnitPrice != nil && line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		itemsByID[line.ItemID] = item
	}

	// Pre-chequeo de saldo línea por línea, en orden, antes de tocar nada.
	// La tx re-valida con bloqueo de fila; esto evita abrir transacciones
	// condenadas y reporta la primera línea corta.
	for _, line := range in.Lines {
		balance, err := uc.balanceRepo.Get(in.WarehouseID, line.ItemID)
		if err != nil {
			return nil, err
		}
		if balance.Quantity < line.Quantity {
			return nil, &domain.InsufficientStockError{
				WarehouseID: in.WarehouseID,
				ItemID:      line.ItemID,
				Available:   balance.Quantity,
				Requested:   line.Quantity,
			}
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		WarehouseID:   in.WarehouseID,
		PaymentMethod: payment,
		Status:        entity.SaleStatusCOMPLETED,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.txRunner.RunSale(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		number, err := saleRepo.NextSaleNumber(now)
		if err != nil {
			return err
		}
		sale.SaleNumber = number
		remark := fmt.Sprintf("venta %s", number)

		subtotal := decimal.Zero
		taxTotal := decimal.Zero
		for _, line := range in.Lines {
			item := itemsByID[line.ItemID]
			unitPrice := item.SellingPrice
			if line.UnitPrice != nil {
				unitPrice = *line.UnitPrice
			}
			qty := decimal.NewFromInt(line.Quantity)
			lineTotal := unitPrice.Mul(qty)
			subtotal = subtotal.Add(lineTotal)
			taxTotal = taxTotal.Add(lineTotal.Mul(item.TaxRate))

			if _, err := ledger.ApplyDeltaInTx(balanceRepo, movRepo,
				in.WarehouseID, line.ItemID, -line.Quantity,
				entity.ActionSALE, remark, actor.UserID, now); err != nil {
				return err
			}

			sale.Lines = append(sale.Lines, entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ItemID:    line.ItemID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
				LineTotal: lineTotal,
			})
		}
		sale.Subtotal = subtotal
		sale.TaxTotal = taxTotal
		sale.GrandTotal = subtotal.Add(taxTotal)

		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(sale), nil
}

// Cancel revierte una venta COMPLETED: en una sola transacción cambia el
// estado (falla con ErrInvalidState si ya estaba cancelada) y acredita cada
// línea de vuelta (acción ADJUSTMENT con referencia a la venta).
func (uc *UseCase) Cancel(ctx context.Context, actor entity.Actor, saleID string) error {
	return uc.txRunner.RunSale(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !actor.IsAdmin() && sale.CreatedBy != actor.UserID {
			return domain.ErrForbidden
		}
		if sale.Status == entity.SaleStatusCANCELLED {
			return domain.ErrInvalidState
		}

		now := time.Now()
		ok, err := saleRepo.UpdateStatusFrom(sale.ID, entity.SaleStatusCOMPLETED, entity.SaleStatusCANCELLED, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidState
		}

		remark := fmt.Sprintf("cancelación venta %s", sale.SaleNumber)
		for _, line := range sale.Lines {
			if _, err := ledger.ApplyDeltaInTx(balanceRepo, movRepo,
				sale.WarehouseID, line.ItemID, line.Quantity,
				entity.ActionADJUSTMENT, remark, actor.UserID, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID devuelve una venta con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(sale), nil
}

// ListByWarehouse lista ventas de una bodega en un rango de fechas.
func (uc *UseCase) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]dto.SaleResponse, error) {
	list, err := uc.saleRepo.ListByWarehouse(warehouseID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toResponse(s))
	}
	return out, nil
}

// Receipt genera el PDF del recibo de una venta.
func (uc *UseCase) Receipt(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(sale.WarehouseID)
	if err != nil {
		return nil, err
	}
	items := make(map[string]*entity.Item, len(sale.Lines))
	for _, line := range sale.Lines {
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items[line.ItemID] = item
		}
	}
	return uc.receipts.GenerateReceipt(ctx, sale, wh, items)
}

func toResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		WarehouseID:   s.WarehouseID,
		Subtotal:      s.Subtotal,
		TaxTotal:      s.TaxTotal,
		GrandTotal:    s.GrandTotal,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		Lines:         make([]dto.SaleLineResponse, 0, len(s.Lines)),
	}
	for _, line := range s.Lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:        line.ID,
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	return resp
}
