package repository

import "github.com/medtrack/inventory-api/internal/domain/entity"

// AuditRepository define el puerto de persistencia para auditorías físicas.
type AuditRepository interface {
	Create(record *entity.AuditRecord) error
	ListByLocation(locationID string, limit, offset int) ([]*entity.AuditRecord, error)
}
