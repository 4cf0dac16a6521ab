package postgres

import (
	"context"
	"fmt"

	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL (usable con pool o tx).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditorías. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste el registro de auditoría y sus líneas.
func (r *AuditRepo) Create(record *entity.AuditRecord) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO audit_records (id, location_id, group_id, actor, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.LocationID, record.GroupID, record.Actor, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	for _, line := range record.Lines {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO audit_lines (audit_id, product_id, counted, delta)
			 VALUES ($1, $2, $3, $4)`,
			record.ID, line.ProductID, line.Counted, line.Delta,
		)
		if err != nil {
			return fmt.Errorf("insert audit line: %w", err)
		}
	}
	return nil
}

// ListByLocation devuelve las auditorías de una ubicación, más reciente primero.
func (r *AuditRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.AuditRecord, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, location_id, group_id, actor, created_at
		 FROM audit_records WHERE location_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		locationID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditRecord
	for rows.Next() {
		var rec entity.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.LocationID, &rec.GroupID, &rec.Actor, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range list {
		lines, err := r.linesFor(rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Lines = lines
	}
	return list, nil
}

func (r *AuditRepo) linesFor(auditID string) ([]entity.AuditLine, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT product_id, counted, delta FROM audit_lines WHERE audit_id = $1 ORDER BY product_id`,
		auditID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.AuditLine
	for rows.Next() {
		var line entity.AuditLine
		if err := rows.Scan(&line.ProductID, &line.Counted, &line.Delta); err != nil {
			return nil, fmt.Errorf("scan audit line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
