package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/sales"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/infrastructure/memory"
)

const (
	warehouseID = "00000000-0000-0000-0000-0000000000a1"
	otherWhID   = "00000000-0000-0000-0000-0000000000a2"
	itemSnack   = "00000000-0000-0000-0000-0000000000b1"
	itemDrink   = "00000000-0000-0000-0000-0000000000b2"
	adminID     = "00000000-0000-0000-0000-000000000001"
	staffID     = "00000000-0000-0000-0000-000000000003"
)

var (
	admin = entity.Actor{UserID: adminID, Role: entity.RoleAdmin}
	staff = entity.Actor{UserID: staffID, Role: entity.RoleStaff, WarehouseID: warehouseID}
)

// stubReceipts evita depender del motor PDF en estas pruebas.
type stubReceipts struct{ calls int }

func (s *stubReceipts) GenerateReceipt(_ context.Context, sale *entity.Sale, _ *entity.Warehouse, _ map[string]*entity.Item) ([]byte, error) {
	s.calls++
	return []byte("%PDF-" + sale.SaleNumber), nil
}

// fixture arma un store con una bodega activa, dos ítems con precio e IVA y
// saldo inicial.
func fixture(t *testing.T) (*sales.UseCase, *memory.Store, *stubReceipts) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()

	for _, w := range []*entity.Warehouse{
		{ID: warehouseID, Name: "Punto de Venta Centro", Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: otherWhID, Name: "Punto de Venta Norte", Active: true, CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, store.Warehouses().Create(w))
	}

	require.NoError(t, store.Items().Create(&entity.Item{
		ID: itemSnack, SKU: "SNK-01", Name: "Galletas",
		SellingPrice: decimal.NewFromInt(1000), TaxRate: decimal.RequireFromString("0.19"),
		Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Items().Create(&entity.Item{
		ID: itemDrink, SKU: "BEB-01", Name: "Gaseosa",
		SellingPrice: decimal.NewFromInt(2500), TaxRate: decimal.RequireFromString("0.19"),
		Active: true, CreatedAt: now, UpdatedAt: now,
	}))

	require.NoError(t, store.Balances().Upsert(&entity.StockBalance{WarehouseID: warehouseID, ItemID: itemSnack, Quantity: 30}))
	require.NoError(t, store.Balances().Upsert(&entity.StockBalance{WarehouseID: warehouseID, ItemID: itemDrink, Quantity: 10}))

	receipts := &stubReceipts{}
	uc := sales.NewUseCase(store, store.Sales(), store.Items(), store.Warehouses(), store.Balances(), receipts)
	return uc, store, receipts
}

func balance(t *testing.T, store *memory.Store, itemID string) int64 {
	t.Helper()
	b, err := store.Balances().Get(warehouseID, itemID)
	require.NoError(t, err)
	return b.Quantity
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestCreate_DebitaLineasYCalculaTotales(t *testing.T) {
	uc, store, _ := fixture(t)

	out, err := uc.Create(context.Background(), staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines: []dto.SaleLineRequest{
			{ItemID: itemSnack, Quantity: 3},
			{ItemID: itemDrink, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCOMPLETED, out.Status)
	assert.Equal(t, entity.PaymentCash, out.PaymentMethod, "sin método explícito se asume efectivo")
	assert.Regexp(t, `^POS-\d{8}-\d{4}$`, out.SaleNumber)

	// 3×1000 + 2×2500 = 8000; IVA 19% = 1520.
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(8000)), "subtotal: %s", out.Subtotal)
	assert.True(t, out.TaxTotal.Equal(decimal.NewFromInt(1520)), "iva: %s", out.TaxTotal)
	assert.True(t, out.GrandTotal.Equal(decimal.NewFromInt(9520)), "total: %s", out.GrandTotal)

	assert.Equal(t, int64(27), balance(t, store, itemSnack))
	assert.Equal(t, int64(8), balance(t, store, itemDrink))

	movs, err := store.Movements().ListByWarehouse(warehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2, "un débito SALE por línea")
	for _, m := range movs {
		assert.Equal(t, entity.ActionSALE, m.Action)
		assert.Equal(t, staffID, m.CreatedBy)
	}
}

func TestCreate_PrecioManualPorLinea(t *testing.T) {
	uc, _, _ := fixture(t)

	promo := decimal.NewFromInt(800)
	out, err := uc.Create(context.Background(), staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines:       []dto.SaleLineRequest{{ItemID: itemSnack, Quantity: 2, UnitPrice: &promo}},
	})
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.True(t, out.Lines[0].UnitPrice.Equal(promo), "el precio manual manda sobre el del catálogo")
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(1600)))
}

func TestCreate_StaffFueraDeSuBodega_Forbidden(t *testing.T) {
	uc, _, _ := fixture(t)

	_, err := uc.Create(context.Background(), staff, dto.CreateSaleRequest{
		WarehouseID: otherWhID,
		Lines:       []dto.SaleLineRequest{{ItemID: itemSnack, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_LineaSinSaldo_NadaSeEscribe(t *testing.T) {
	uc, store, _ := fixture(t)

	_, err := uc.Create(context.Background(), staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines: []dto.SaleLineRequest{
			{ItemID: itemSnack, Quantity: 5},
			{ItemID: itemDrink, Quantity: 11}, // sólo hay 10
		},
	})
	var insufficientErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, itemDrink, insufficientErr.ItemID)
	assert.Equal(t, int64(10), insufficientErr.Available)
	assert.Equal(t, int64(11), insufficientErr.Requested)

	// Todo o nada: la primera línea tampoco debitó.
	assert.Equal(t, int64(30), balance(t, store, itemSnack))
	assert.Equal(t, int64(10), balance(t, store, itemDrink))

	movs, err := store.Movements().ListByWarehouse(warehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)

	list, err := uc.ListByWarehouse(context.Background(), warehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "una venta fallida no se persiste")
}

func TestCreate_ItemInactivo_Invalido(t *testing.T) {
	uc, store, _ := fixture(t)

	require.NoError(t, store.Items().SetActive(itemSnack, false))

	_, err := uc.Create(context.Background(), staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines:       []dto.SaleLineRequest{{ItemID: itemSnack, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ConsecutivoDiarioIncrementa(t *testing.T) {
	uc, _, _ := fixture(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines:       []dto.SaleLineRequest{{ItemID: itemSnack, Quantity: 1}},
	})
	require.NoError(t, err)
	second, err := uc.Create(ctx, staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines:       []dto.SaleLineRequest{{ItemID: itemSnack, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.SaleNumber, second.SaleNumber)
	assert.Greater(t, second.SaleNumber, first.SaleNumber, "misma fecha, consecutivo mayor")
}

// ── Cancel ────────────────────────────────────────────────────────────────────

func TestCancel_AcreditaDeVuelta(t *testing.T) {
	uc, store, _ := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines: []dto.SaleLineRequest{
			{ItemID: itemSnack, Quantity: 4},
			{ItemID: itemDrink, Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Cancel(ctx, staff, created.ID))

	assert.Equal(t, int64(30), balance(t, store, itemSnack), "la cancelación restaura el saldo")
	assert.Equal(t, int64(10), balance(t, store, itemDrink))

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCANCELLED, got.Status)

	// 2 débitos SALE + 2 créditos ADJUSTMENT.
	movs, err := store.Movements().ListByWarehouse(warehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, 4)
	adjustments := 0
	for _, m := range movs {
		if m.Action == entity.ActionADJUSTMENT {
			adjustments++
		}
	}
	assert.Equal(t, 2, adjustments)
}

func TestCancel_DosVeces_InvalidState(t *testing.T) {
	uc, _, _ := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines:       []dto.SaleLineRequest{{ItemID: itemSnack, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Cancel(ctx, staff, created.ID))
	err = uc.Cancel(ctx, staff, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "la cancelación es de una sola vía")
}

func TestCancel_SoloCreadorOAdmin(t *testing.T) {
	uc, _, _ := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines:       []dto.SaleLineRequest{{ItemID: itemSnack, Quantity: 1}},
	})
	require.NoError(t, err)

	otherStaff := entity.Actor{UserID: "00000000-0000-0000-0000-000000000009", Role: entity.RoleStaff, WarehouseID: warehouseID}
	err = uc.Cancel(ctx, otherStaff, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// El admin sí puede cancelar ventas ajenas.
	require.NoError(t, uc.Cancel(ctx, admin, created.ID))
}

// ── Receipt ───────────────────────────────────────────────────────────────────

func TestReceipt_GeneraPDFDeLaVenta(t *testing.T) {
	uc, _, receipts := fixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, staff, dto.CreateSaleRequest{
		WarehouseID: warehouseID,
		Lines:       []dto.SaleLineRequest{{ItemID: itemSnack, Quantity: 1}},
	})
	require.NoError(t, err)

	pdf, err := uc.Receipt(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, receipts.calls)
}

func TestReceipt_VentaInexistente_NotFound(t *testing.T) {
	uc, _, _ := fixture(t)

	_, err := uc.Receipt(context.Background(), "00000000-0000-0000-0000-0000000000ff")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
