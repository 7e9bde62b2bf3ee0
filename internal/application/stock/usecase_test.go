package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/ledger"
	"github.com/jhoicas/Bodegas-api/internal/application/stock"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/infrastructure/memory"
)

const (
	warehouseID = "00000000-0000-0000-0000-0000000000a1"
	otherWhID   = "00000000-0000-0000-0000-0000000000a2"
	itemID      = "00000000-0000-0000-0000-0000000000b1"
	inactiveID  = "00000000-0000-0000-0000-0000000000b2"
	adminID     = "00000000-0000-0000-0000-000000000001"
	managerID   = "00000000-0000-0000-0000-000000000002"
)

var (
	admin   = entity.Actor{UserID: adminID, Role: entity.RoleAdmin}
	manager = entity.Actor{UserID: managerID, Role: entity.RoleManager, WarehouseID: warehouseID}
	staff   = entity.Actor{UserID: "00000000-0000-0000-0000-000000000003", Role: entity.RoleStaff, WarehouseID: warehouseID}
)

func fixture(t *testing.T) (*stock.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()

	for _, w := range []*entity.Warehouse{
		{ID: warehouseID, Name: "Bodega Principal", Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: otherWhID, Name: "Bodega Secundaria", Active: true, CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, store.Warehouses().Create(w))
	}
	require.NoError(t, store.Items().Create(&entity.Item{
		ID: itemID, SKU: "SKU-01", Name: "Martillo", Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Items().Create(&entity.Item{
		ID: inactiveID, SKU: "SKU-02", Name: "Descontinuado", Active: false, CreatedAt: now, UpdatedAt: now,
	}))

	lg := ledger.NewLedger(store, store.Balances())
	uc := stock.NewUseCase(lg, store.Items(), store.Warehouses(), store.Balances(), store.Movements())
	return uc, store
}

// ── Assign / Remove / Adjust ──────────────────────────────────────────────────

func TestAssign_SumaYDevuelvePreviousNew(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	out, err := uc.Assign(ctx, admin, dto.AssignStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.PreviousQty)
	assert.Equal(t, int64(15), out.NewQty)

	out, err = uc.Assign(ctx, admin, dto.AssignStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(15), out.PreviousQty)
	assert.Equal(t, int64(20), out.NewQty)
}

func TestRemove_SinSaldo_InsufficientStock(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	_, err := uc.Assign(ctx, admin, dto.AssignStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 3})
	require.NoError(t, err)

	_, err = uc.Remove(ctx, admin, dto.RemoveStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 4})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := uc.GetBalance(ctx, warehouseID, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity, "el retiro rechazado no toca el saldo")
}

func TestAdjust_DeltaConSigno(t *testing.T) {
	uc, store := fixture(t)
	ctx := context.Background()

	_, err := uc.Adjust(ctx, admin, dto.AdjustStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 10, Remark: "conteo físico"})
	require.NoError(t, err)
	out, err := uc.Adjust(ctx, admin, dto.AdjustStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: -4, Remark: "merma"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), out.NewQty)

	_, err = uc.Adjust(ctx, admin, dto.AdjustStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "ajuste cero no tiene sentido")

	movs, err := store.Movements().ListByWarehouse(warehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.ActionADJUSTMENT, m.Action)
		assert.Positive(t, m.Quantity, "el log registra magnitudes, el signo va en la acción y previous/new")
	}
}

// ── Alcance por rol ───────────────────────────────────────────────────────────

func TestMutaciones_StaffForbidden(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	_, err := uc.Assign(ctx, staff, dto.AssignStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Remove(ctx, staff, dto.RemoveStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Adjust(ctx, staff, dto.AdjustStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMutaciones_ManagerSoloSuBodega(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	_, err := uc.Assign(ctx, manager, dto.AssignStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 2})
	require.NoError(t, err)

	_, err = uc.Assign(ctx, manager, dto.AssignStockRequest{WarehouseID: otherWhID, ItemID: itemID, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrForbidden, "el manager no muta bodegas ajenas")
}

// ── Validación del destino ────────────────────────────────────────────────────

func TestAssign_ItemInactivo_Invalido(t *testing.T) {
	uc, _ := fixture(t)

	_, err := uc.Assign(context.Background(), admin, dto.AssignStockRequest{WarehouseID: warehouseID, ItemID: inactiveID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssign_ItemInexistente_NotFound(t *testing.T) {
	uc, _ := fixture(t)

	_, err := uc.Assign(context.Background(), admin, dto.AssignStockRequest{
		WarehouseID: warehouseID, ItemID: "00000000-0000-0000-0000-0000000000ff", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssign_CantidadNoPositiva_Rechazada(t *testing.T) {
	uc, _ := fixture(t)

	for _, qty := range []int64{0, -2} {
		_, err := uc.Assign(context.Background(), admin, dto.AssignStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: qty})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func TestListBalances_SoloLaBodegaPedida(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	_, err := uc.Assign(ctx, admin, dto.AssignStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 5})
	require.NoError(t, err)
	_, err = uc.Assign(ctx, admin, dto.AssignStockRequest{WarehouseID: otherWhID, ItemID: itemID, Quantity: 7})
	require.NoError(t, err)

	list, err := uc.ListBalances(ctx, warehouseID, 100, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(5), list[0].Quantity)
}

func TestListMovements_FiltraPorRangoDeFechas(t *testing.T) {
	uc, _ := fixture(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Minute)
	_, err := uc.Assign(ctx, admin, dto.AssignStockRequest{WarehouseID: warehouseID, ItemID: itemID, Quantity: 5, Remark: "entrada"})
	require.NoError(t, err)
	after := time.Now().Add(time.Minute)

	inRange, err := uc.ListMovementsByWarehouse(ctx, warehouseID, &before, &after, 100, 0)
	require.NoError(t, err)
	assert.Len(t, inRange, 1)
	assert.Equal(t, "entrada", inRange[0].Remark)

	past := time.Now().Add(-2 * time.Hour)
	outOfRange, err := uc.ListMovementsByWarehouse(ctx, warehouseID, &past, &before, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, outOfRange)

	byItem, err := uc.ListMovementsByItem(ctx, itemID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, byItem, 1)
}
