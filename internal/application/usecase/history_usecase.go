package usecase

import (
	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// HistoryUseCase ruta de lectura del historial de movimientos (página History).
type HistoryUseCase struct {
	movRepo repository.MovementRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(movRepo repository.MovementRepository) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo}
}

// List historial paginado, más reciente primero, con filtros opcionales.
func (uc *HistoryUseCase) List(filter repository.MovementFilter, page dto.PageRequest) (*dto.HistoryResponse, error) {
	page.DefaultPage()
	list, err := uc.movRepo.List(filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.HistoryResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ToMovementResponse mapea una entrada del ledger a su DTO.
func ToMovementResponse(m *entity.MovementEntry) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                    m.ID,
		GroupID:               m.GroupID,
		Kind:                  m.Kind,
		ProductID:             m.ProductID,
		LocationID:            m.LocationID,
		CounterpartLocationID: m.CounterpartLocationID,
		Delta:                 m.Delta,
		Notes:                 m.Notes,
		ReversesID:            m.ReversesID,
		UndoneBy:              m.UndoneBy,
		Actor:                 m.Actor,
		CreatedAt:             m.CreatedAt,
	}
}
