package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// stockAttrs atributos opcionales de la fila de stock que un alta puede fijar o refrescar.
type stockAttrs struct {
	ExpiryDate  *time.Time
	BatchNumber string
}

// applyEntry es el núcleo del Item Ledger: bloquea la fila de stock (SELECT FOR UPDATE),
// aplica el delta con signo y agrega la entrada al ledger, todo dentro de la transacción
// del caller. Rechaza con domain.ErrInsufficientStock si la cantidad resultante sería
// negativa; nunca la recorta a cero. Las filas en cero persisten.
func applyEntry(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	e *entity.MovementEntry,
	attrs *stockAttrs,
	now time.Time,
) (*entity.ItemStock, error) {
	stock, err := stockRepo.GetForUpdate(e.ProductID, e.LocationID)
	if err != nil {
		return nil, err
	}
	newQty := stock.Quantity.Add(e.Delta)
	if newQty.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}
	stock.Quantity = newQty
	if attrs != nil {
		if attrs.ExpiryDate != nil {
			stock.ExpiryDate = attrs.ExpiryDate
		}
		if attrs.BatchNumber != "" {
			stock.BatchNumber = attrs.BatchNumber
		}
	}
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return nil, err
	}
	if err := movRepo.Create(e); err != nil {
		return nil, err
	}
	return stock, nil
}

// validQuantity valida que la cantidad sea un entero positivo (el ledger cuenta unidades).
func validQuantity(q decimal.Decimal) bool {
	return q.IsPositive() && q.Equal(q.Truncate(0))
}

// validCount valida que un conteo de auditoría sea un entero no negativo.
func validCount(q decimal.Decimal) bool {
	return !q.IsNegative() && q.Equal(q.Truncate(0))
}
