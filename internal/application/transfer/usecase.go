// Package transfer implementa el ciclo de vida de las solicitudes de
// traslado entre bodegas: PENDING → {COMPLETED | REJECTED | CANCELLED}.
// La aprobación ejecuta el débito en origen y el crédito en destino para
// cada línea como una sola unidad atómica.
package transfer

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
)

// UseCase transiciones y consultas de solicitudes de traslado.
type UseCase struct {
	txRunner      TxRunner
	transferRepo  repository.TransferRepository
	warehouseRepo repository.WarehouseRepository
	itemRepo      repository.ItemRepository
	balanceRepo   repository.StockBalanceRepository // atado al pool, pre-chequeos de lectura
}

// NewUseCase construye el caso de uso de traslados.
func NewUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	warehouseRepo repository.WarehouseRepository,
	itemRepo repository.ItemRepository,
	balanceRepo repository.StockBalanceRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		transferRepo:  transferRepo,
		warehouseRepo: warehouseRepo,
		itemRepo:      itemRepo,
		balanceRepo:   balanceRepo,
	}
}

// Create registra una solicitud en estado PENDING. Managers sólo pueden
// trasladar desde su bodega asignada; admin desde cualquiera. El chequeo de
// saldo aquí es informativo (no vinculante): el stock puede cambiar antes de
// la aprobación, que re-valida con bloqueo de fila.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if actor.Role != entity.RoleAdmin && actor.Role != entity.RoleManager {
		return nil, domain.ErrForbidden
	}
	sourceID := in.SourceID
	if actor.Role == entity.RoleManager {
		if sourceID == "" {
			sourceID = actor.WarehouseID
		}
		if sourceID != actor.WarehouseID {
			return nil, domain.ErrForbidden
		}
	}
	if sourceID == "" || in.DestinationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if sourceID == in.DestinationID {
		return nil, domain.ErrInvalidInput
	}

	for _, wid := range []string{sourceID, in.DestinationID} {
		wh, err := uc.warehouseRepo.GetByID(wid)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, domain.ErrNotFound
		}
		if !wh.Active {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validar líneas en orden; el primer saldo insuficiente es el reportado.
	for _, line := range in.Lines {
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
		balance, err := uc.balanceRepo.Get(sourceID, line.ItemID)
		if err != nil {
			return nil, err
		}
		if balance.Quantity < line.Quantity {
			return nil, &domain.InsufficientStockError{
				WarehouseID: sourceID,
				ItemID:      line.ItemID,
				Available:   balance.Quantity,
				Requested:   line.Quantity,
			}
		}
	}

	number, err := uc.transferRepo.NextRequestNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &entity.TransferRequest{
		ID:            uuid.New().String(),
		RequestNumber: number,
		SourceID:      sourceID,
		DestinationID: in.DestinationID,
		Status:        entity.TransferStatusPENDING,
		Reason:        in.Reason,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, line := range in.Lines {
		t.Lines = append(t.Lines, entity.TransferLine{
			ID:         uuid.New().String(),
			TransferID: t.ID,
			ItemID:     line.ItemID,
			Quantity:   line.Quantity,
		})
	}
	if err := uc.transferRepo.Create(t); err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

// Approve ejecuta un traslado PENDING: en una sola transacción marca la
// solicitud COMPLETED (guarda de estado contra aprobaciones concurrentes) y
// aplica, línea por línea en orden, TRANSFER_OUT en origen y TRANSFER_IN en
// destino. Si alguna línea no tiene saldo la transacción entera se descarta
// y la solicitud queda PENDING sin efectos.
func (uc *UseCase) Approve(ctx context.Context, actor entity.Actor, transferID string) (*dto.TransferResponse, error) {
	if !actor.CanApproveTransfers() {
		return nil, domain.ErrForbidden
	}

	var approved *entity.TransferRequest
	err := uc.txRunner.RunTransfer(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
	) error {
		t, err := transferRepo.GetByID(transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if t.Status != entity.TransferStatusPENDING {
			return domain.ErrInvalidState
		}

		now := time.Now()
		ok, err := transferRepo.UpdateStatusFrom(t.ID, entity.TransferStatusPENDING, entity.TransferStatusCOMPLETED, actor.UserID, "", now)
		if err != nil {
			return err
		}
		if !ok {
			// Otra transacción ganó la transición.
			return domain.ErrInvalidState
		}

		remark := fmt.Sprintf("traslado %s", t.RequestNumber)
		for _, line := range t.Lines {
			if _, err := ledger.ApplyDeltaInTx(balanceRepo, movRepo,
				t.SourceID, line.ItemID, -line.Quantity,
				entity.ActionTRANSFEROUT, remark, actor.UserID, now); err != nil {
				return err
			}
			if _, err := ledger.ApplyDeltaInTx(balanceRepo, movRepo,
				t.DestinationID, line.ItemID, line.Quantity,
				entity.ActionTRANSFERIN, remark, actor.UserID, now); err != nil {
				return err
			}
		}

		t.Status = entity.TransferStatusCOMPLETED
		t.ApprovedBy = actor.UserID
		t.ApprovedAt = &now
		t.UpdatedAt = now
		approved = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(approved), nil
}

// Reject marca una solicitud PENDING como REJECTED. Sin efecto sobre el libro.
func (uc *UseCase) Reject(ctx context.Context, actor entity.Actor, transferID, note string) error {
	if !actor.CanApproveTransfers() {
		return domain.ErrForbidden
	}
	t, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrNotFound
	}
	ok, err := uc.transferRepo.UpdateStatusFrom(transferID, entity.TransferStatusPENDING, entity.TransferStatusREJECTED, actor.UserID, note, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidState
	}
	return nil
}

// Cancel marca una solicitud PENDING como CANCELLED. La puede cancelar el
// manager que la creó o un admin. Sin efecto sobre el libro.
func (uc *UseCase) Cancel(ctx context.Context, actor entity.Actor, transferID string) error {
	t, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrNotFound
	}
	if !actor.IsAdmin() && t.CreatedBy != actor.UserID {
		return domain.ErrForbidden
	}
	ok, err := uc.transferRepo.UpdateStatusFrom(transferID, entity.TransferStatusPENDING, entity.TransferStatusCANCELLED, actor.UserID, "", time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidState
	}
	return nil
}

// GetByID devuelve una solicitud con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, transferID string) (*dto.TransferResponse, error) {
	t, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(t), nil
}

// List lista solicitudes, opcionalmente filtradas por estado y bodega
// (origen o destino).
func (uc *UseCase) List(ctx context.Context, status, warehouseID string, limit, offset int) ([]dto.TransferResponse, error) {
	list, err := uc.transferRepo.List(status, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toResponse(t))
	}
	return out, nil
}

func toResponse(t *entity.TransferRequest) *dto.TransferResponse {
	resp := &dto.TransferResponse{
		ID:            t.ID,
		RequestNumber: t.RequestNumber,
		SourceID:      t.SourceID,
		DestinationID: t.DestinationID,
		Status:        t.Status,
		Reason:        t.Reason,
		ReviewNote:    t.ReviewNote,
		CreatedBy:     t.CreatedBy,
		ApprovedBy:    t.ApprovedBy,
		ApprovedAt:    t.ApprovedAt,
		CreatedAt:     t.CreatedAt,
		Lines:         make([]dto.TransferLineResponse, 0, len(t.Lines)),
	}
	for _, line := range t.Lines {
		resp.Lines = append(resp.Lines, dto.TransferLineResponse{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return resp
}
