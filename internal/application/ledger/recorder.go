package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// Recorder registra movimientos de inventario de forma transaccional
// (add, usage, wastage, transfer) con bloqueo de fila y Commit/Rollback.
// Valida la forma del intent según el tipo, asigna timestamp y GroupID,
// y llama al ledger una vez por cada par (producto, ubicación) afectado.
type Recorder struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewRecorder construye el registrador de movimientos.
func NewRecorder(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *Recorder {
	return &Recorder{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// MovementInput intent de movimiento ya formado (la UI nunca envía filas parciales).
// Para add/usage/wastage: ProductID, LocationID, Quantity.
// Para transfer: ProductID, FromLocationID, ToLocationID, Quantity.
// ExpiryDate, BatchNumber y MinStock solo aplican en add.
type MovementInput struct {
	Kind           string
	ProductID      string
	LocationID     string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	ExpiryDate     *time.Time
	BatchNumber    string
	MinStock       *decimal.Decimal
	Notes          string
	Actor          string
	// GroupID opcional: las importaciones masivas agrupan varias altas bajo una misma acción.
	GroupID string
}

// MovementResult entradas comprometidas y el snapshot de stock resultante por fila afectada.
type MovementResult struct {
	GroupID string
	Entries []*entity.MovementEntry
	Stocks  []*entity.ItemStock
}

// Record valida el intent, inicia una transacción y aplica el movimiento.
// Un traslado emite exactamente dos llamadas al ledger (transfer_out en origen,
// transfer_in en destino) que comprometen juntas o ninguna: el stock no puede
// "desvanecerse" si la escritura en destino falla después de la de origen.
func (r *Recorder) Record(ctx context.Context, in MovementInput) (*MovementResult, error) {
	switch in.Kind {
	case entity.MovementKindAdd, entity.MovementKindUsage, entity.MovementKindWastage:
		if in.ProductID == "" || in.LocationID == "" || !validQuantity(in.Quantity) {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementKindTransfer:
		if in.ProductID == "" || in.FromLocationID == "" || in.ToLocationID == "" {
			return nil, domain.ErrInvalidInput
		}
		if in.FromLocationID == in.ToLocationID || !validQuantity(in.Quantity) {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock != nil && !validCount(*in.MinStock) {
		return nil, domain.ErrInvalidInput
	}

	// Referencias colgantes se rechazan antes de abrir la transacción.
	product, err := r.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Kind == entity.MovementKindTransfer {
		if err := r.locationsExist(in.FromLocationID, in.ToLocationID); err != nil {
			return nil, err
		}
	} else {
		if err := r.locationsExist(in.LocationID); err != nil {
			return nil, err
		}
	}

	// Umbral de stock mínimo: se captura en la primera alta del producto si la UI lo envió.
	if in.Kind == entity.MovementKindAdd && in.MinStock != nil && product.MinStock == nil {
		product.MinStock = in.MinStock
		product.UpdatedAt = time.Now()
		if err := r.productRepo.Update(product); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	groupID := in.GroupID
	if groupID == "" {
		groupID = uuid.New().String()
	}

	result := &MovementResult{GroupID: groupID}
	err = r.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		_ repository.AuditRepository,
	) error {
		if in.Kind == entity.MovementKindTransfer {
			return r.doTransfer(stockRepo, movRepo, in, now, groupID, result)
		}
		return r.doSingle(stockRepo, movRepo, in, now, groupID, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// doSingle aplica add (delta positivo) o usage/wastage (delta negativo) sobre una fila.
func (r *Recorder) doSingle(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	in MovementInput,
	now time.Time, groupID string,
	result *MovementResult,
) error {
	delta := in.Quantity
	var attrs *stockAttrs
	if in.Kind == entity.MovementKindAdd {
		attrs = &stockAttrs{ExpiryDate: in.ExpiryDate, BatchNumber: in.BatchNumber}
	} else {
		delta = in.Quantity.Neg()
	}
	e := &entity.MovementEntry{
		ID:         uuid.New().String(),
		GroupID:    groupID,
		Kind:       in.Kind,
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Delta:      delta,
		Notes:      in.Notes,
		Actor:      in.Actor,
		CreatedAt:  now,
	}
	stock, err := applyEntry(stockRepo, movRepo, e, attrs, now)
	if err != nil {
		return err
	}
	result.Entries = append(result.Entries, e)
	result.Stocks = append(result.Stocks, stock)
	return nil
}

// doTransfer resta en origen y suma en destino dentro de la misma transacción;
// ambas entradas comparten GroupID y sus deltas suman cero. El lote y vencimiento
// de la fila origen acompañan al stock trasladado.
func (r *Recorder) doTransfer(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	in MovementInput,
	now time.Time, groupID string,
	result *MovementResult,
) error {
	origin, err := stockRepo.Get(in.ProductID, in.FromLocationID)
	if err != nil {
		return err
	}

	out := &entity.MovementEntry{
		ID:                    uuid.New().String(),
		GroupID:               groupID,
		Kind:                  entity.MovementKindTransferOut,
		ProductID:             in.ProductID,
		LocationID:            in.FromLocationID,
		CounterpartLocationID: &in.ToLocationID,
		Delta:                 in.Quantity.Neg(),
		Notes:                 in.Notes,
		Actor:                 in.Actor,
		CreatedAt:             now,
	}
	originStock, err := applyEntry(stockRepo, movRepo, out, nil, now)
	if err != nil {
		return err
	}

	inEntry := &entity.MovementEntry{
		ID:                    uuid.New().String(),
		GroupID:               groupID,
		Kind:                  entity.MovementKindTransferIn,
		ProductID:             in.ProductID,
		LocationID:            in.ToLocationID,
		CounterpartLocationID: &in.FromLocationID,
		Delta:                 in.Quantity,
		Notes:                 in.Notes,
		Actor:                 in.Actor,
		CreatedAt:             now,
	}
	destStock, err := applyEntry(stockRepo, movRepo, inEntry, &stockAttrs{
		ExpiryDate:  origin.ExpiryDate,
		BatchNumber: origin.BatchNumber,
	}, now)
	if err != nil {
		return err
	}

	result.Entries = append(result.Entries, out, inEntry)
	result.Stocks = append(result.Stocks, originStock, destStock)
	return nil
}

func (r *Recorder) locationsExist(ids ...string) error {
	for _, id := range ids {
		loc, err := r.locationRepo.GetByID(id)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}
