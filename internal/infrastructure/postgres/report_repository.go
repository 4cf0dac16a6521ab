package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/medtrack/inventory-api/internal/domain/inventory"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura para el dashboard.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Totals calcula los agregados globales del dashboard en una sola consulta.
func (r *ReportRepo) Totals(today time.Time) (*repository.DashboardTotals, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	limit := day.AddDate(0, 0, inventory.ExpiringWindowDays)
	query := `
		SELECT
			COALESCE(SUM(quantity), 0),
			COUNT(DISTINCT product_id) FILTER (WHERE quantity > 0),
			(SELECT COUNT(*) FROM locations),
			COUNT(*) FILTER (WHERE quantity > 0 AND expiry_date IS NOT NULL AND expiry_date < $1),
			COUNT(*) FILTER (WHERE quantity > 0 AND expiry_date IS NOT NULL AND expiry_date >= $1 AND expiry_date <= $2)
		FROM item_stock`
	var t repository.DashboardTotals
	err := r.q.QueryRow(context.Background(), query, day, limit).Scan(
		&t.TotalUnits, &t.StockedProducts, &t.Locations, &t.ExpiredCount, &t.ExpiringCount,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	return &t, nil
}

// LocationSummaries unidades y productos distintos por ubicación.
func (r *ReportRepo) LocationSummaries() ([]*repository.LocationSummary, error) {
	query := `
		SELECT l.id, l.name, COALESCE(SUM(s.quantity), 0), COUNT(s.product_id) FILTER (WHERE s.quantity > 0)
		FROM locations l
		LEFT JOIN item_stock s ON s.location_id = l.id
		GROUP BY l.id, l.name
		ORDER BY lower(l.name)`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("location summaries: %w", err)
	}
	defer rows.Close()
	var list []*repository.LocationSummary
	for rows.Next() {
		var s repository.LocationSummary
		if err := rows.Scan(&s.LocationID, &s.LocationName, &s.Units, &s.Products); err != nil {
			return nil, fmt.Errorf("scan location summary: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
