package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegas-api/internal/application/ledger"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/infrastructure/memory"
)

const (
	testWarehouseID = "00000000-0000-0000-0000-00000000000a"
	testItemID      = "00000000-0000-0000-0000-00000000000b"
	testUserID      = "00000000-0000-0000-0000-000000000001"
)

func newLedger(t *testing.T) (*ledger.Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return ledger.NewLedger(store, store.Balances()), store
}

// Un saldo sin fila previa se lee como cero, no como error.
func TestGetBalance_SinFila_DevuelveCero(t *testing.T) {
	lg, _ := newLedger(t)

	qty, err := lg.GetBalance(context.Background(), testWarehouseID, testItemID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty, "un par sin fila debe leerse como saldo 0")
}

// Un delta positivo sobre un par sin fila la crea con la cantidad del delta.
func TestApplyDelta_PrimerDelta_CreaFilaYMovimiento(t *testing.T) {
	lg, store := newLedger(t)
	ctx := context.Background()

	res, err := lg.ApplyDelta(ctx, testWarehouseID, testItemID, 10, entity.ActionADD, "carga inicial", testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Previous)
	assert.Equal(t, int64(10), res.New)

	qty, err := lg.GetBalance(ctx, testWarehouseID, testItemID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), qty)

	movs, err := store.Movements().ListByWarehouse(testWarehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1, "cada ApplyDelta registra exactamente un movimiento")
	assert.Equal(t, entity.ActionADD, movs[0].Action)
	assert.Equal(t, int64(10), movs[0].Quantity, "la cantidad del movimiento es la magnitud del delta")
	assert.Equal(t, int64(0), movs[0].PreviousQty)
	assert.Equal(t, int64(10), movs[0].NewQty)
	assert.Equal(t, testUserID, movs[0].CreatedBy)
}

// Delta cero es rechazado sin tocar el libro.
func TestApplyDelta_DeltaCero_Rechazado(t *testing.T) {
	lg, store := newLedger(t)

	_, err := lg.ApplyDelta(context.Background(), testWarehouseID, testItemID, 0, entity.ActionADJUSTMENT, "", testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	movs, err := store.Movements().ListByWarehouse(testWarehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "un delta rechazado no deja movimientos")
}

// Un delta que dejaría el saldo negativo falla con los datos del faltante y
// no escribe nada: ni saldo ni movimiento.
func TestApplyDelta_StockInsuficiente_NoEscribeNada(t *testing.T) {
	lg, store := newLedger(t)
	ctx := context.Background()

	_, err := lg.ApplyDelta(ctx, testWarehouseID, testItemID, 5, entity.ActionADD, "", testUserID)
	require.NoError(t, err)

	_, err = lg.ApplyDelta(ctx, testWarehouseID, testItemID, -8, entity.ActionREMOVE, "", testUserID)
	require.Error(t, err)

	var insufficientErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr), "el error debe portar los datos del faltante")
	assert.Equal(t, int64(5), insufficientErr.Available)
	assert.Equal(t, int64(8), insufficientErr.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "debe desenrollar al sentinel de stock insuficiente")

	qty, err := lg.GetBalance(ctx, testWarehouseID, testItemID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty, "el saldo no cambia tras un delta rechazado")

	movs, err := store.Movements().ListByWarehouse(testWarehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "el delta rechazado no deja movimiento")
}

// Retirar exactamente el saldo disponible deja el contador en cero.
func TestApplyDelta_RetiroExacto_DejaCero(t *testing.T) {
	lg, _ := newLedger(t)
	ctx := context.Background()

	_, err := lg.ApplyDelta(ctx, testWarehouseID, testItemID, 7, entity.ActionADD, "", testUserID)
	require.NoError(t, err)

	res, err := lg.ApplyDelta(ctx, testWarehouseID, testItemID, -7, entity.ActionREMOVE, "", testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.New, "retirar todo el saldo es legal: cero no es negativo")
}

// Secuencia de deltas: el log acumula un movimiento por llamada y los campos
// previous/new encadenan.
func TestApplyDelta_SecuenciaEncadenaPreviousNew(t *testing.T) {
	lg, store := newLedger(t)
	ctx := context.Background()

	deltas := []int64{10, -3, 5}
	for _, d := range deltas {
		action := entity.ActionADD
		if d < 0 {
			action = entity.ActionREMOVE
		}
		_, err := lg.ApplyDelta(ctx, testWarehouseID, testItemID, d, action, "", testUserID)
		require.NoError(t, err)
	}

	qty, err := lg.GetBalance(ctx, testWarehouseID, testItemID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), qty)

	movs, err := store.Movements().ListByItem(testItemID, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3, "un movimiento por delta aplicado")
	for _, m := range movs {
		assert.Positive(t, m.Quantity, "la cantidad registrada siempre es una magnitud positiva")
	}
}

// Deltas concurrentes sobre un par SIN fila previa no se pisan: la creación
// perezosa de la fila también queda serializada, así que ningún delta se
// pierde y cada movimiento parte del saldo que dejó el anterior.
func TestApplyDelta_PrimerasAsignacionesConcurrentes_NoSePierden(t *testing.T) {
	lg, store := newLedger(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lg.ApplyDelta(ctx, testWarehouseID, testItemID, 10, entity.ActionADD, "", testUserID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	qty, err := lg.GetBalance(ctx, testWarehouseID, testItemID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*10), qty, "ningún delta puede perderse en la primera asignación")

	movs, err := store.Movements().ListByWarehouse(testWarehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, workers)
	seen := make(map[int64]bool)
	for _, m := range movs {
		assert.Equal(t, m.PreviousQty+10, m.NewQty)
		assert.False(t, seen[m.PreviousQty], "dos movimientos no pueden partir del mismo saldo previo")
		seen[m.PreviousQty] = true
	}
}

// La lectura de saldo no escribe: dos lecturas seguidas no agregan movimientos.
func TestGetBalance_EsSoloLectura(t *testing.T) {
	lg, store := newLedger(t)
	ctx := context.Background()

	_, err := lg.ApplyDelta(ctx, testWarehouseID, testItemID, 4, entity.ActionADD, "", testUserID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		qty, err := lg.GetBalance(ctx, testWarehouseID, testItemID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), qty)
	}

	movs, err := store.Movements().ListByWarehouse(testWarehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}
