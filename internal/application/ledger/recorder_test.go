package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/inventory-api/internal/application/ledger"
	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
)

// harness arma un Recorder con fakes y productos/ubicaciones pre-sembrados.
type harness struct {
	stock    *fakeStockRepo
	mov      *fakeMovementRepo
	audit    *fakeAuditRepo
	tx       *fakeTxRunner
	products *fakeProductRepo
	locs     *fakeLocationRepo
	recorder *ledger.Recorder
}

func newHarness(productIDs, locationIDs []string) *harness {
	h := &harness{
		stock:    newFakeStockRepo(),
		mov:      &fakeMovementRepo{},
		audit:    &fakeAuditRepo{},
		products: newFakeProductRepo(productIDs...),
		locs:     newFakeLocationRepo(locationIDs...),
	}
	h.tx = &fakeTxRunner{stock: h.stock, mov: h.mov, audit: h.audit}
	h.recorder = ledger.NewRecorder(h.tx, h.products, h.locs)
	return h
}

func (h *harness) mustRecord(t *testing.T, in ledger.MovementInput) *ledger.MovementResult {
	t.Helper()
	res, err := h.recorder.Record(context.Background(), in)
	require.NoError(t, err)
	return res
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestRecordAdd(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})

	res := h.mustRecord(t, ledger.MovementInput{
		Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L",
		Quantity: qty(20), Actor: "ana",
	})

	require.Len(t, res.Entries, 1)
	assert.Equal(t, entity.MovementKindAdd, res.Entries[0].Kind)
	assert.True(t, res.Entries[0].Delta.Equal(qty(20)))
	assert.Equal(t, "ana", res.Entries[0].Actor)
	require.Len(t, res.Stocks, 1)
	assert.True(t, res.Stocks[0].Quantity.Equal(qty(20)))
	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(20)))
}

func TestRecordUsageReducesStock(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(10)})

	res := h.mustRecord(t, ledger.MovementInput{
		Kind: entity.MovementKindUsage, ProductID: "p1", LocationID: "L",
		Quantity: qty(3), Notes: "curación",
	})

	assert.True(t, res.Entries[0].Delta.Equal(qty(-3)))
	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(7)))
}

func TestRecordUsageInsufficientStock(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(2)})

	_, err := h.recorder.Record(context.Background(), ledger.MovementInput{
		Kind: entity.MovementKindUsage, ProductID: "p1", LocationID: "L", Quantity: qty(5),
	})

	// Se rechaza, nunca se recorta a cero; el estado queda intacto.
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(2)))
	assert.Len(t, h.mov.entries, 1)
}

func TestRecordWastage(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(4)})

	res := h.mustRecord(t, ledger.MovementInput{
		Kind: entity.MovementKindWastage, ProductID: "p1", LocationID: "L",
		Quantity: qty(4), Notes: "lote vencido",
	})

	assert.Equal(t, entity.MovementKindWastage, res.Entries[0].Kind)
	// La fila en cero persiste para historial.
	assert.True(t, h.stock.quantity("p1", "L").IsZero())
}

func TestTransferProducesLinkedPair(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L", "M"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(20)})

	res := h.mustRecord(t, ledger.MovementInput{
		Kind: entity.MovementKindTransfer, ProductID: "p1",
		FromLocationID: "L", ToLocationID: "M", Quantity: qty(5),
	})

	require.Len(t, res.Entries, 2)
	out, in := res.Entries[0], res.Entries[1]
	assert.Equal(t, entity.MovementKindTransferOut, out.Kind)
	assert.Equal(t, entity.MovementKindTransferIn, in.Kind)
	// Par enlazado: mismo GroupID y deltas que suman cero.
	assert.Equal(t, out.GroupID, in.GroupID)
	assert.True(t, out.Delta.Add(in.Delta).IsZero())
	assert.Equal(t, "M", *out.CounterpartLocationID)
	assert.Equal(t, "L", *in.CounterpartLocationID)

	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(15)))
	assert.True(t, h.stock.quantity("p1", "M").Equal(qty(5)))
}

func TestTransferInsufficientStockRollsBack(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L", "M"})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(3)})

	_, err := h.recorder.Record(context.Background(), ledger.MovementInput{
		Kind: entity.MovementKindTransfer, ProductID: "p1",
		FromLocationID: "L", ToLocationID: "M", Quantity: qty(10),
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, h.stock.quantity("p1", "L").Equal(qty(3)))
	assert.True(t, h.stock.quantity("p1", "M").IsZero())
	assert.Len(t, h.mov.entries, 1)
}

func TestTransferSameLocationRejected(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})

	_, err := h.recorder.Record(context.Background(), ledger.MovementInput{
		Kind: entity.MovementKindTransfer, ProductID: "p1",
		FromLocationID: "L", ToLocationID: "L", Quantity: qty(1),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordRejectsNonIntegerQuantity(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})

	_, err := h.recorder.Record(context.Background(), ledger.MovementInput{
		Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L",
		Quantity: decimal.NewFromFloat(1.5),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordUnknownReferences(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})

	_, err := h.recorder.Record(context.Background(), ledger.MovementInput{
		Kind: entity.MovementKindAdd, ProductID: "fantasma", LocationID: "L", Quantity: qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.recorder.Record(context.Background(), ledger.MovementInput{
		Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "bodega-x", Quantity: qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La proyección ItemStock debe igualar la suma de deltas del ledger para el par,
// tras cualquier secuencia de movimientos.
func TestProjectionMatchesLedgerSum(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L", "M"})

	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L", Quantity: qty(20)})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindTransfer, ProductID: "p1", FromLocationID: "L", ToLocationID: "M", Quantity: qty(5)})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindUsage, ProductID: "p1", LocationID: "M", Quantity: qty(3)})
	h.mustRecord(t, ledger.MovementInput{Kind: entity.MovementKindWastage, ProductID: "p1", LocationID: "L", Quantity: qty(2)})

	for _, loc := range []string{"L", "M"} {
		assert.True(t, h.stock.quantity("p1", loc).Equal(h.mov.sumDeltas("p1", loc)),
			"proyección y ledger divergen en %s", loc)
	}
}

func TestAddCapturesMinStockOnFirstSight(t *testing.T) {
	h := newHarness([]string{"p1"}, []string{"L"})
	min := qty(5)

	h.mustRecord(t, ledger.MovementInput{
		Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L",
		Quantity: qty(10), MinStock: &min,
	})

	p, _ := h.products.GetByID("p1")
	require.NotNil(t, p.MinStock)
	assert.True(t, p.MinStock.Equal(qty(5)))

	// Un alta posterior no pisa el umbral ya definido.
	otra := qty(9)
	h.mustRecord(t, ledger.MovementInput{
		Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L",
		Quantity: qty(1), MinStock: &otra,
	})
	p, _ = h.products.GetByID("p1")
	assert.True(t, p.MinStock.Equal(qty(5)))
}

func TestConcurrentFirstAddsSerialize(t *testing.T) {
	// Par (producto, ubicación) sin fila previa: todas las altas compiten por
	// estrenarla. GetForUpdate materializa la fila y la bloquea, así que ninguna
	// alta puede pisar a otra y la proyección conserva la suma de deltas.
	store := newRowLockStore()
	mov := &syncMovementRepo{}
	tx := &rowLockTxRunner{store: store, mov: mov, audit: &fakeAuditRepo{}}
	recorder := ledger.NewRecorder(tx, newFakeProductRepo("p1"), newFakeLocationRepo("L"))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = recorder.Record(context.Background(), ledger.MovementInput{
				Kind: entity.MovementKindAdd, ProductID: "p1", LocationID: "L",
				Quantity: qty(5), Actor: "ana",
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	repo := &rowLockStockRepo{store: store}
	stock, err := repo.Get("p1", "L")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(qty(5*workers)),
		"cantidad final %s, esperada %d", stock.Quantity, 5*workers)
	assert.True(t, stock.Quantity.Equal(mov.sumDeltas("p1", "L")))
	assert.Len(t, mov.entries, workers)
}
