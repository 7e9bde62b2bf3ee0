// Package stock expone las operaciones primitivas de mutación de stock
// (asignar, retirar, ajustar) como envoltorios delgados del libro de
// cantidades, cada uno fijando la acción y el signo del delta.
package stock

import (
	"context"
	"time"

	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/ledger"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// UseCase operaciones de mutación y consulta de stock.
type UseCase struct {
	ledger        *ledger.Ledger
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	balanceRepo   repository.StockBalanceRepository
	movRepo       repository.MovementRepository
}

// NewUseCase construye el caso de uso de stock.
func NewUseCase(
	lg *ledger.Ledger,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
) *UseCase {
	return &UseCase{
		ledger:        lg,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		balanceRepo:   balanceRepo,
		movRepo:       movRepo,
	}
}

// checkScope valida rol y alcance de bodega para mutaciones directas:
// admin opera sobre cualquier bodega; manager sólo sobre la suya.
func checkScope(actor entity.Actor, warehouseID string) error {
	if !actor.CanManageStock() {
		return domain.ErrForbidden
	}
	if actor.Role == entity.RoleManager && actor.WarehouseID != warehouseID {
		return domain.ErrForbidden
	}
	return nil
}

// validateTarget verifica que el ítem y la bodega existan y estén activos.
func (uc *UseCase) validateTarget(warehouseID, itemID string) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if !item.Active {
		return domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	if !wh.Active {
		return domain.ErrInvalidInput
	}
	return nil
}

// Assign suma qty unidades (acción ADD). qty debe ser > 0.
func (uc *UseCase) Assign(ctx context.Context, actor entity.Actor, in dto.AssignStockRequest) (*dto.StockMutationResponse, error) {
	if err := checkScope(actor, in.WarehouseID); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := uc.validateTarget(in.WarehouseID, in.ItemID); err != nil {
		return nil, err
	}
	res, err := uc.ledger.ApplyDelta(ctx, in.WarehouseID, in.ItemID, in.Quantity, entity.ActionADD, in.Remark, actor.UserID)
	if err != nil {
		return nil, err
	}
	return toMutationResponse(in.WarehouseID, in.ItemID, res), nil
}

// Remove resta qty unidades (acción REMOVE). qty debe ser > 0; falla con
// InsufficientStock si el saldo quedaría negativo.
func (uc *UseCase) Remove(ctx context.Context, actor entity.Actor, in dto.RemoveStockRequest) (*dto.StockMutationResponse, error) {
	if err := checkScope(actor, in.WarehouseID); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := uc.validateTarget(in.WarehouseID, in.ItemID); err != nil {
		return nil, err
	}
	res, err := uc.ledger.ApplyDelta(ctx, in.WarehouseID, in.ItemID, -in.Quantity, entity.ActionREMOVE, in.Remark, actor.UserID)
	if err != nil {
		return nil, err
	}
	return toMutationResponse(in.WarehouseID, in.ItemID, res), nil
}

// Adjust aplica un delta con signo (acción ADJUSTMENT). El delta no puede
// ser cero; los negativos fallan con InsufficientStock si no hay saldo.
func (uc *UseCase) Adjust(ctx context.Context, actor entity.Actor, in dto.AdjustStockRequest) (*dto.StockMutationResponse, error) {
	if err := checkScope(actor, in.WarehouseID); err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := uc.validateTarget(in.WarehouseID, in.ItemID); err != nil {
		return nil, err
	}
	res, err := uc.ledger.ApplyDelta(ctx, in.WarehouseID, in.ItemID, in.Quantity, entity.ActionADJUSTMENT, in.Remark, actor.UserID)
	if err != nil {
		return nil, err
	}
	return toMutationResponse(in.WarehouseID, in.ItemID, res), nil
}

// GetBalance devuelve el saldo actual del par (bodega, ítem); 0 si no hay fila.
func (uc *UseCase) GetBalance(ctx context.Context, warehouseID, itemID string) (*dto.BalanceResponse, error) {
	qty, err := uc.ledger.GetBalance(ctx, warehouseID, itemID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{WarehouseID: warehouseID, ItemID: itemID, Quantity: qty}, nil
}

// ListBalances lista los saldos de una bodega.
func (uc *UseCase) ListBalances(ctx context.Context, warehouseID string, limit, offset int) ([]dto.BalanceResponse, error) {
	balances, err := uc.balanceRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.BalanceResponse{WarehouseID: b.WarehouseID, ItemID: b.ItemID, Quantity: b.Quantity})
	}
	return out, nil
}

// ListMovementsByWarehouse lista el log de movimientos de una bodega
// (lectura de auditoría; el log nunca se modifica).
func (uc *UseCase) ListMovementsByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	movs, err := uc.movRepo.ListByWarehouse(warehouseID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movs), nil
}

// ListMovementsByItem lista el log de movimientos de un ítem.
func (uc *UseCase) ListMovementsByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	movs, err := uc.movRepo.ListByItem(itemID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movs), nil
}

func toMutationResponse(warehouseID, itemID string, res *ledger.DeltaResult) *dto.StockMutationResponse {
	return &dto.StockMutationResponse{
		WarehouseID: warehouseID,
		ItemID:      itemID,
		PreviousQty: res.Previous,
		NewQty:      res.New,
	}
}

func toMovementResponses(movs []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementResponse{
			ID:          m.ID,
			ItemID:      m.ItemID,
			WarehouseID: m.WarehouseID,
			Action:      m.Action,
			Quantity:    m.Quantity,
			PreviousQty: m.PreviousQty,
			NewQty:      m.NewQty,
			Remark:      m.Remark,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}
