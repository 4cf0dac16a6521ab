package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/inventory-api/internal/application/ledger"
	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
)

func newReconciler(h *harness) *ledger.Reconciler {
	return ledger.NewReconciler(h.tx, h.products, h.locs)
}

func TestReconcileEqualCountIsNoOp(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(10)})

	res, err := newReconciler(h).Reconcile(context.Background(), "L", []ledger.CountInput{
		{ProductID: "p1", Expected: qty(10), Counted: qty(10)},
	}, "ana")
	require.NoError(t, err)

	// Auditar sin cambios no produce ajustes; la auditoría queda en el registro.
	assert.Empty(t, res.Entries)
	require.NotNil(t, res.Record)
	require.Len(t, res.Record.Lines, 1)
	assert.True(t, res.Record.Lines[0].Delta.IsZero())
	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(10)))
}

func TestReconcileNegativeDeltaAsConsumption(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(10)})

	res, err := newReconciler(h).Reconcile(context.Background(), "L", []ledger.CountInput{
		{ProductID: "p1", Expected: qty(10), Counted: qty(7)},
	}, "ana")
	require.NoError(t, err)

	require.Len(t, res.Entries, 1)
	e := res.Entries[0]
	assert.Equal(t, entity.MovementKindAuditAdjust, e.Kind)
	assert.True(t, e.Delta.Equal(qty(-3)))
	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(7)))
}

func TestReconcilePositiveDeltaAsCorrection(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(4)})

	res, err := newReconciler(h).Reconcile(context.Background(), "L", []ledger.CountInput{
		{ProductID: "p1", Expected: qty(4), Counted: qty(9)},
	}, "ana")
	require.NoError(t, err)

	require.Len(t, res.Entries, 1)
	assert.True(t, res.Entries[0].Delta.Equal(qty(5)))
	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(9)))
}

// Los productos no contados no se tocan: las auditorías parciales son válidas.
func TestReconcilePartialAuditLeavesOthersUntouched(t *testing.T) {
	h := newHarness([]string{"p1", "p2"}, []string{"L"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(10)})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p2", LocationID: "L", Quantity: qty(5)})

	_, err := newReconciler(h).Reconcile(context.Background(), "L", []ledger.CountInput{
		{ProductID: "p1", Expected: qty(10), Counted: qty(8)},
	}, "ana")
	require.NoError(t, err)

	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(8)))
	assert.True(t, h.stock.quantity("p2", "L").Equal(qty(5)))
}

// Si el stock de cualquier producto cubierto cambió entre el conteo y el commit,
// el lote completo se rechaza y no persiste ningún ajuste parcial.
func TestReconcileStaleCountRejectedWholeBatch(t *testing.T) {
	h := newHarness([]string{"p1", "p2"}, []string{"L"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(10)})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p2", LocationID: "L", Quantity: qty(5)})

	entriesBefore := len(h.mov.entries)

	// El auditor contó cuando p2 tenía 4; alguien ya movió stock.
	_, err := newReconciler(h).Reconcile(context.Background(), "L", []ledger.CountInput{
		{ProductID: "p1", Expected: qty(10), Counted: qty(9)},
		{ProductID: "p2", Expected: qty(4), Counted: qty(4)},
	}, "ana")

	require.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(10)))
	assert.True(t, h.stock.quantity("p2", "L").Equal(qty(5)))
	assert.Len(t, h.mov.entries, entriesBefore)
	assert.Empty(t, h.audit.records)
}

func TestReconcileValidation(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})

	// Línea duplicada.
	_, err := newReconciler(h).Reconcile(context.Background(), "L", []ledger.CountInput{
		{ProductID: "p1", Expected: qty(0), Counted: qty(1)},
		{ProductID: "p1", Expected: qty(0), Counted: qty(2)},
	}, "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Conteo negativo.
	_, err = newReconciler(h).Reconcile(context.Background(), "L", []ledger.CountInput{
		{ProductID: "p1", Expected: qty(0), Counted: qty(-1)},
	}, "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Ubicación inexistente.
	_, err = newReconciler(h).Reconcile(context.Background(), "bodega-x", []ledger.CountInput{
		{ProductID: "p1", Expected: qty(0), Counted: qty(1)},
	}, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
