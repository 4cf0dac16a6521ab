package usecase

import (
	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// AuditQueryUseCase ruta de lectura de auditorías pasadas de una ubicación.
type AuditQueryUseCase struct {
	auditRepo repository.AuditRepository
}

// NewAuditQueryUseCase construye el caso de uso.
func NewAuditQueryUseCase(auditRepo repository.AuditRepository) *AuditQueryUseCase {
	return &AuditQueryUseCase{auditRepo: auditRepo}
}

// ListByLocation auditorías de una ubicación, más reciente primero.
func (uc *AuditQueryUseCase) ListByLocation(locationID string, page dto.PageRequest) ([]dto.AuditResponse, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	records, err := uc.auditRepo.ListByLocation(locationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, ToAuditResponse(rec, nil))
	}
	return out, nil
}

// ToAuditResponse mapea una auditoría y sus ajustes derivados al DTO.
func ToAuditResponse(rec *entity.AuditRecord, adjustments []*entity.MovementEntry) dto.AuditResponse {
	lines := make([]dto.AuditLineResponse, 0, len(rec.Lines))
	for _, line := range rec.Lines {
		lines = append(lines, dto.AuditLineResponse{
			ProductID: line.ProductID,
			Counted:   line.Counted,
			Delta:     line.Delta,
		})
	}
	resp := dto.AuditResponse{
		ID:         rec.ID,
		LocationID: rec.LocationID,
		GroupID:    rec.GroupID,
		Actor:      rec.Actor,
		Lines:      lines,
		CreatedAt:  rec.CreatedAt,
	}
	for _, m := range adjustments {
		resp.Adjustments = append(resp.Adjustments, ToMovementResponse(m))
	}
	return resp
}
