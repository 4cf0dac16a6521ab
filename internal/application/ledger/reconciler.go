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

// Reconciler reconcilia un reconteo físico contra el estado del ledger.
// Por cada producto contado deriva delta = contado - cantidad actual: un delta
// negativo se registra como consumo detectado, uno positivo como corrección de
// stock. Los productos no contados no se tocan (auditorías parciales válidas).
type Reconciler struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewReconciler construye el reconciliador de auditorías.
func NewReconciler(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *Reconciler {
	return &Reconciler{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// CountInput línea de conteo de una auditoría. Expected es la cantidad que el
// auditor vio en pantalla al iniciar el conteo: si al momento del commit el stock
// real difiere, hubo un movimiento concurrente y el lote completo se rechaza.
type CountInput struct {
	ProductID string
	Expected  decimal.Decimal
	Counted   decimal.Decimal
}

// ReconcileResult auditoría persistida más los ajustes derivados.
type ReconcileResult struct {
	Record  *entity.AuditRecord
	Entries []*entity.MovementEntry
}

// Reconcile valida el conteo y lo aplica todo-o-nada dentro de una transacción.
// Cada línea se lee con FOR UPDATE y se compara contra Expected: cualquier
// discrepancia aborta el lote completo con domain.ErrConcurrentModification sin
// persistir ningún ajuste; el caller debe reintentar con un conteo fresco.
// Un conteo igual al stock actual no produce entradas (auditar sin cambios es no-op).
func (r *Reconciler) Reconcile(ctx context.Context, locationID string, lines []CountInput, actor string) (*ReconcileResult, error) {
	if locationID == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if line.ProductID == "" || !validCount(line.Counted) || !validCount(line.Expected) {
			return nil, domain.ErrInvalidInput
		}
		if seen[line.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[line.ProductID] = true
	}

	loc, err := r.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	for _, line := range lines {
		p, err := r.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	groupID := uuid.New().String()
	result := &ReconcileResult{}

	err = r.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		auditRepo repository.AuditRepository,
	) error {
		record := &entity.AuditRecord{
			ID:         uuid.New().String(),
			LocationID: locationID,
			GroupID:    groupID,
			Actor:      actor,
			CreatedAt:  now,
		}
		for _, line := range lines {
			stock, err := stockRepo.GetForUpdate(line.ProductID, locationID)
			if err != nil {
				return err
			}
			if !stock.Quantity.Equal(line.Expected) {
				// Movimiento concurrente entre el conteo y el commit.
				return domain.ErrConcurrentModification
			}
			delta := line.Counted.Sub(stock.Quantity)
			record.Lines = append(record.Lines, entity.AuditLine{
				ProductID: line.ProductID,
				Counted:   line.Counted,
				Delta:     delta,
			})
			if delta.IsZero() {
				continue
			}
			notes := "corrección de stock por auditoría"
			if delta.IsNegative() {
				notes = "consumo detectado en auditoría"
			}
			e := &entity.MovementEntry{
				ID:         uuid.New().String(),
				GroupID:    groupID,
				Kind:       entity.MovementKindAuditAdjust,
				ProductID:  line.ProductID,
				LocationID: locationID,
				Delta:      delta,
				Notes:      notes,
				Actor:      actor,
				CreatedAt:  now,
			}
			if _, err := applyEntry(stockRepo, movRepo, e, nil, now); err != nil {
				return err
			}
			result.Entries = append(result.Entries, e)
		}
		if err := auditRepo.Create(record); err != nil {
			return err
		}
		result.Record = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
