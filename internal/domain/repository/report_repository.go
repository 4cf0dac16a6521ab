package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardTotals agregados globales para el dashboard.
type DashboardTotals struct {
	TotalUnits      decimal.Decimal
	StockedProducts int
	Locations       int
	ExpiredCount    int
	ExpiringCount   int
}

// LocationSummary unidades y productos distintos por ubicación.
type LocationSummary struct {
	LocationID   string
	LocationName string
	Units        decimal.Decimal
	Products     int
}

// ReportRepository define el puerto de consultas agregadas (solo lectura).
type ReportRepository interface {
	Totals(today time.Time) (*DashboardTotals, error)
	LocationSummaries() ([]*LocationSummary, error)
}
