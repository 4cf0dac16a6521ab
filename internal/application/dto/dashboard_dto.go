package dto

import "github.com/shopspring/decimal"

// LocationSummaryDTO unidades y productos distintos por ubicación.
type LocationSummaryDTO struct {
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	Units        decimal.Decimal `json:"units"`
	Products     int             `json:"products"`
}

// DashboardResponse resumen para la página principal.
type DashboardResponse struct {
	TotalUnits      decimal.Decimal      `json:"total_units"`
	StockedProducts int                  `json:"stocked_products"`
	Locations       int                  `json:"locations"`
	ExpiredCount    int                  `json:"expired_count"`
	ExpiringCount   int                  `json:"expiring_count"`
	LowStock        []StockResponse      `json:"low_stock"`
	RecentMovements []MovementResponse   `json:"recent_movements"`
	ByLocation      []LocationSummaryDTO `json:"by_location"`
}
