package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// DefaultLowStockThreshold umbral de stock bajo cuando el producto no define uno.
var DefaultLowStockThreshold = decimal.NewFromInt(5)

const dashboardRecentMovements = 10

// DashboardUseCase resumen de la página principal: totales, stock bajo,
// vencimientos y últimos movimientos.
//
// Fuente de datos: ReportRepository, StockRepository y MovementRepository,
// todas consultas read-only; no requiere coordinación con el motor del ledger.
type DashboardUseCase struct {
	reportRepo repository.ReportRepository
	stockRepo  repository.StockRepository
	movRepo    repository.MovementRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	reportRepo repository.ReportRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo, stockRepo: stockRepo, movRepo: movRepo}
}

// GetSummary arma el DashboardResponse. Las cuatro consultas se paralelizan.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	type totalsResult struct {
		totals *repository.DashboardTotals
		err    error
	}
	type lowStockResult struct {
		rows []*repository.StockRow
		err  error
	}
	type recentResult struct {
		movs []dto.MovementResponse
		err  error
	}
	type byLocationResult struct {
		summaries []*repository.LocationSummary
		err       error
	}

	totalsCh := make(chan totalsResult, 1)
	lowCh := make(chan lowStockResult, 1)
	recentCh := make(chan recentResult, 1)
	locCh := make(chan byLocationResult, 1)

	go func() {
		totals, err := uc.reportRepo.Totals(time.Now())
		totalsCh <- totalsResult{totals, err}
	}()
	go func() {
		rows, err := uc.stockRepo.ListLowStock(DefaultLowStockThreshold)
		lowCh <- lowStockResult{rows, err}
	}()
	go func() {
		list, err := uc.movRepo.ListRecent(dashboardRecentMovements)
		if err != nil {
			recentCh <- recentResult{nil, err}
			return
		}
		movs := make([]dto.MovementResponse, 0, len(list))
		for _, m := range list {
			movs = append(movs, ToMovementResponse(m))
		}
		recentCh <- recentResult{movs, nil}
	}()
	go func() {
		summaries, err := uc.reportRepo.LocationSummaries()
		locCh <- byLocationResult{summaries, err}
	}()

	totals := <-totalsCh
	low := <-lowCh
	recent := <-recentCh
	byLoc := <-locCh
	for _, err := range []error{totals.err, low.err, recent.err, byLoc.err} {
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.DashboardResponse{
		TotalUnits:      totals.totals.TotalUnits,
		StockedProducts: totals.totals.StockedProducts,
		Locations:       totals.totals.Locations,
		ExpiredCount:    totals.totals.ExpiredCount,
		ExpiringCount:   totals.totals.ExpiringCount,
		LowStock:        toStockResponses(low.rows),
		RecentMovements: recent.movs,
	}
	for _, s := range byLoc.summaries {
		resp.ByLocation = append(resp.ByLocation, dto.LocationSummaryDTO{
			LocationID:   s.LocationID,
			LocationName: s.LocationName,
			Units:        s.Units,
			Products:     s.Products,
		})
	}
	return resp, nil
}
