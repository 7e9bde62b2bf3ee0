package transfer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/transfer"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/infrastructure/memory"
)

const (
	sourceID  = "00000000-0000-0000-0000-0000000000a1"
	destID    = "00000000-0000-0000-0000-0000000000a2"
	itemA     = "00000000-0000-0000-0000-0000000000b1"
	itemB     = "00000000-0000-0000-0000-0000000000b2"
	adminID   = "00000000-0000-0000-0000-000000000001"
	managerID = "00000000-0000-0000-0000-000000000002"
)

var (
	admin   = entity.Actor{UserID: adminID, Role: entity.RoleAdmin}
	manager = entity.Actor{UserID: managerID, Role: entity.RoleManager, WarehouseID: sourceID}
	staff   = entity.Actor{UserID: "00000000-0000-0000-0000-000000000003", Role: entity.RoleStaff, WarehouseID: sourceID}
)

// fixture arma un store con dos bodegas activas, dos ítems y saldo inicial
// en la bodega origen.
func fixture(t *testing.T) (*transfer.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()

	for _, w := range []*entity.Warehouse{
		{ID: sourceID, Name: "Bodega Norte", Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: destID, Name: "Bodega Sur", Active: true, CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, store.Warehouses().Create(w))
	}
	for i, id := range []string{itemA, itemB} {
		require.NoError(t, store.Items().Create(&entity.Item{
			ID: id, SKU: []string{"SKU-A", "SKU-B"}[i], Name: []string{"Tornillo", "Tuerca"}[i],
			Active: true, CreatedAt: now, UpdatedAt: now,
		}))
	}
	require.NoError(t, store.Balances().Upsert(&entity.StockBalance{WarehouseID: sourceID, ItemID: itemA, Quantity: 50}))
	require.NoError(t, store.Balances().Upsert(&entity.StockBalance{WarehouseID: sourceID, ItemID: itemB, Quantity: 20}))

	uc := transfer.NewUseCase(store, store.Transfers(), store.Warehouses(), store.Items(), store.Balances())
	return uc, store
}

func balance(t *testing.T, store *memory.Store, warehouseID, itemID string) int64 {
	t.Helper()
	b, err := store.Balances().Get(warehouseID, itemID)
	require.NoError(t, err)
	return b.Quantity
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestCreate_ManagerUsaSuBodegaPorDefecto(t *testing.T) {
	uc, _ := fixture(t)

	out, err := uc.Create(context.Background(), manager, dto.CreateTransferRequest{
		DestinationID: destID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, sourceID, out.SourceID, "sin source explícito el manager traslada desde su bodega")
	assert.Equal(t, entity.TransferStatusPENDING, out.Status)
	assert.NotEmpty(t, out.RequestNumber)
	assert.Equal(t, managerID, out.CreatedBy)
}

func TestCreate_ManagerDesdeOtraBodega_Forbidden(t *testing.T) {
	uc, _ := fixture(t)

	_, err := uc.Create(context.Background(), manager, dto.CreateTransferRequest{
		SourceID:      destID,
		DestinationID: sourceID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_StaffNoPuedeCrear(t *testing.T) {
	uc, _ := fixture(t)

	_, err := uc.Create(context.Background(), staff, dto.CreateTransferRequest{
		SourceID:      sourceID,
		DestinationID: destID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_OrigenIgualDestino_Invalido(t *testing.T) {
	uc, _ := fixture(t)

	_, err := uc.Create(context.Background(), admin, dto.CreateTransferRequest{
		SourceID:      sourceID,
		DestinationID: sourceID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_CantidadNoPositiva_Rechazada(t *testing.T) {
	uc, _ := fixture(t)

	for _, qty := range []int64{0, -5} {
		_, err := uc.Create(context.Background(), admin, dto.CreateTransferRequest{
			SourceID:      sourceID,
			DestinationID: destID,
			Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: qty}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
}

func TestCreate_SaldoCorto_ReportaPrimeraLineaEnOrden(t *testing.T) {
	uc, _ := fixture(t)

	// itemA alcanza (50), itemB no (20 < 25): el error es de itemB.
	_, err := uc.Create(context.Background(), admin, dto.CreateTransferRequest{
		SourceID:      sourceID,
		DestinationID: destID,
		Lines: []dto.TransferLineRequest{
			{ItemID: itemA, Quantity: 40},
			{ItemID: itemB, Quantity: 25},
		},
	})
	var insufficientErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, itemB, insufficientErr.ItemID)
	assert.Equal(t, int64(20), insufficientErr.Available)
	assert.Equal(t, int64(25), insufficientErr.Requested)
}

// ── Approve ───────────────────────────────────────────────────────────────────

func TestApprove_EjecutaAmbasPatasYConservaElTotal(t *testing.T) {
	uc, store := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, manager, dto.CreateTransferRequest{
		DestinationID: destID,
		Lines: []dto.TransferLineRequest{
			{ItemID: itemA, Quantity: 30},
			{ItemID: itemB, Quantity: 5},
		},
	})
	require.NoError(t, err)

	totalA := balance(t, store, sourceID, itemA) + balance(t, store, destID, itemA)

	out, err := uc.Approve(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCOMPLETED, out.Status)
	assert.Equal(t, adminID, out.ApprovedBy)
	require.NotNil(t, out.ApprovedAt)

	assert.Equal(t, int64(20), balance(t, store, sourceID, itemA))
	assert.Equal(t, int64(30), balance(t, store, destID, itemA))
	assert.Equal(t, int64(15), balance(t, store, sourceID, itemB))
	assert.Equal(t, int64(5), balance(t, store, destID, itemB))

	// El total global por ítem no cambia con un traslado.
	assert.Equal(t, totalA, balance(t, store, sourceID, itemA)+balance(t, store, destID, itemA))

	// Dos movimientos por línea: salida en origen y entrada en destino.
	outMovs, err := store.Movements().ListByWarehouse(sourceID, nil, nil, 100, 0)
	require.NoError(t, err)
	inMovs, err := store.Movements().ListByWarehouse(destID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, outMovs, 2)
	assert.Len(t, inMovs, 2)
	for _, m := range outMovs {
		assert.Equal(t, entity.ActionTRANSFEROUT, m.Action)
	}
	for _, m := range inMovs {
		assert.Equal(t, entity.ActionTRANSFERIN, m.Action)
	}
}

func TestApprove_SaldoInsuficiente_TodoONada(t *testing.T) {
	uc, store := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, admin, dto.CreateTransferRequest{
		SourceID:      sourceID,
		DestinationID: destID,
		Lines: []dto.TransferLineRequest{
			{ItemID: itemA, Quantity: 10},
			{ItemID: itemB, Quantity: 20},
		},
	})
	require.NoError(t, err)

	// El stock de itemB se consume entre la creación y la aprobación.
	require.NoError(t, store.Balances().Upsert(&entity.StockBalance{WarehouseID: sourceID, ItemID: itemB, Quantity: 3}))

	_, err = uc.Approve(ctx, admin, created.ID)
	var insufficientErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr), "la línea corta aborta la aprobación")
	assert.Equal(t, itemB, insufficientErr.ItemID)

	// Ningún efecto parcial: la primera línea también se revirtió.
	assert.Equal(t, int64(50), balance(t, store, sourceID, itemA))
	assert.Equal(t, int64(0), balance(t, store, destID, itemA))
	assert.Equal(t, int64(3), balance(t, store, sourceID, itemB))

	movs, err := store.Movements().ListByWarehouse(sourceID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "una aprobación fallida no deja movimientos")

	// La solicitud sigue PENDING y puede reintentarse.
	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPENDING, got.Status)
}

func TestApprove_SoloAdmin(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, manager, dto.CreateTransferRequest{
		DestinationID: destID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = uc.Approve(ctx, manager, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el manager creador no aprueba sus propios traslados")
}

func TestApprove_DosVeces_InvalidState(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, admin, dto.CreateTransferRequest{
		SourceID:      sourceID,
		DestinationID: destID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = uc.Approve(ctx, admin, created.ID)
	require.NoError(t, err)

	_, err = uc.Approve(ctx, admin, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "COMPLETED es terminal")
}

func TestApprove_NoExiste_NotFound(t *testing.T) {
	uc, _ := fixture(t)

	_, err := uc.Approve(context.Background(), admin, "00000000-0000-0000-0000-0000000000ff")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Reject / Cancel ───────────────────────────────────────────────────────────

func TestReject_SinEfectoSobreElLibro(t *testing.T) {
	uc, store := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, manager, dto.CreateTransferRequest{
		DestinationID: destID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 10}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Reject(ctx, admin, created.ID, "sin transporte esta semana"))

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusREJECTED, got.Status)
	assert.Equal(t, "sin transporte esta semana", got.ReviewNote)
	assert.Equal(t, adminID, got.ApprovedBy, "el rechazo sí registra quién revisó")

	assert.Equal(t, int64(50), balance(t, store, sourceID, itemA), "el rechazo no mueve stock")

	// Terminal: no se puede aprobar después.
	_, err = uc.Approve(ctx, admin, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCancel_SoloCreadorOAdmin(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, manager, dto.CreateTransferRequest{
		DestinationID: destID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 2}},
	})
	require.NoError(t, err)

	otherManager := entity.Actor{UserID: "00000000-0000-0000-0000-000000000009", Role: entity.RoleManager, WarehouseID: destID}
	err = uc.Cancel(ctx, otherManager, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Cancel(ctx, manager, created.ID))

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCANCELLED, got.Status)
	assert.Empty(t, got.ApprovedBy, "una cancelación no registra aprobador")
	assert.Nil(t, got.ApprovedAt)
}

func TestList_FiltraPorEstadoYBodega(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, admin, dto.CreateTransferRequest{
		SourceID:      sourceID,
		DestinationID: destID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = uc.Create(ctx, admin, dto.CreateTransferRequest{
		SourceID:      sourceID,
		DestinationID: destID,
		Lines:         []dto.TransferLineRequest{{ItemID: itemB, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Reject(ctx, admin, first.ID, ""))

	pending, err := uc.List(ctx, entity.TransferStatusPENDING, "", 100, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := uc.List(ctx, "", sourceID, 100, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := uc.List(ctx, "", "00000000-0000-0000-0000-0000000000ff", 100, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// Los consecutivos de solicitud son únicos y crecientes.
func TestCreate_ConsecutivosMonotonicos(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		out, err := uc.Create(ctx, admin, dto.CreateTransferRequest{
			SourceID:      sourceID,
			DestinationID: destID,
			Lines:         []dto.TransferLineRequest{{ItemID: itemA, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.False(t, seen[out.RequestNumber], "consecutivo repetido: %s", out.RequestNumber)
		seen[out.RequestNumber] = true
	}
}
