package usecase

import (
	"time"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/inventory"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// StockQueryUseCase rutas de lectura de stock para presentación. Los filtros
// malformados o referencias inexistentes devuelven resultados vacíos, no error:
// la capa de presentación debe seguir funcionando.
type StockQueryUseCase struct {
	stockRepo repository.StockRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(stockRepo repository.StockRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo}
}

// List lista stock filtrado por ubicación, búsqueda, categoría y estado de vencimiento.
func (uc *StockQueryUseCase) List(filter repository.StockFilter, limit, offset int) ([]dto.StockResponse, error) {
	switch filter.Expiry {
	case "", inventory.ExpiryExpired, inventory.ExpiryExpiring:
	default:
		return []dto.StockResponse{}, nil
	}
	rows, err := uc.stockRepo.List(filter, limit, offset)
	if err != nil {
		return []dto.StockResponse{}, nil
	}
	return toStockResponses(rows), nil
}

// ExpiryReport stock vencido y por vencer (30 días), ordenado por fecha.
func (uc *StockQueryUseCase) ExpiryReport() (*dto.ExpiryReportResponse, error) {
	expired, err := uc.stockRepo.List(repository.StockFilter{Expiry: inventory.ExpiryExpired}, 0, 0)
	if err != nil {
		return nil, err
	}
	expiring, err := uc.stockRepo.List(repository.StockFilter{Expiry: inventory.ExpiryExpiring}, 0, 0)
	if err != nil {
		return nil, err
	}
	return &dto.ExpiryReportResponse{
		Expired:  toStockResponses(expired),
		Expiring: toStockResponses(expiring),
	}, nil
}

// ToStockSnapshot mapea una fila de stock sin enriquecer (respuesta de mutaciones).
func ToStockSnapshot(s *entity.ItemStock) dto.StockResponse {
	resp := dto.StockResponse{
		ProductID:    s.ProductID,
		LocationID:   s.LocationID,
		Quantity:     s.Quantity,
		BatchNumber:  s.BatchNumber,
		ExpiryStatus: inventory.ExpiryStatus(s.ExpiryDate, time.Now()),
		UpdatedAt:    s.UpdatedAt,
	}
	if s.ExpiryDate != nil {
		d := s.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &d
	}
	return resp
}

// toStockResponses mapea filas enriquecidas a DTOs, calculando el estado de vencimiento.
func toStockResponses(rows []*repository.StockRow) []dto.StockResponse {
	today := time.Now()
	out := make([]dto.StockResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toStockResponse(row, today))
	}
	return out
}

func toStockResponse(row *repository.StockRow, today time.Time) dto.StockResponse {
	s := row.Stock
	resp := dto.StockResponse{
		ProductID:    s.ProductID,
		ProductName:  row.ProductName,
		ProductType:  row.ProductType,
		ProductSize:  row.ProductSize,
		LocationID:   s.LocationID,
		LocationName: row.LocationName,
		Quantity:     s.Quantity,
		BatchNumber:  s.BatchNumber,
		ExpiryStatus: inventory.ExpiryStatus(s.ExpiryDate, today),
		UpdatedAt:    s.UpdatedAt,
	}
	if s.ExpiryDate != nil {
		d := s.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &d
	}
	return resp
}
