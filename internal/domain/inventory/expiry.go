package inventory

import "time"

// Estados de vencimiento de un stock.
const (
	ExpiryGood     = "good"
	ExpiryExpiring = "expiring"
	ExpiryExpired  = "expired"
)

// ExpiringWindowDays ventana de "por vencer" usada en dashboard y reporte de vencimientos.
const ExpiringWindowDays = 30

// ExpiryStatus clasifica una fecha de vencimiento respecto a hoy (servicio de dominio).
// Sin fecha = good; vencida = expired; dentro de los próximos 30 días = expiring.
func ExpiryStatus(expiry *time.Time, today time.Time) string {
	if expiry == nil {
		return ExpiryGood
	}
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	e, d := day(*expiry), day(today)
	if e.Before(d) {
		return ExpiryExpired
	}
	if !e.After(d.AddDate(0, 0, ExpiringWindowDays)) {
		return ExpiryExpiring
	}
	return ExpiryGood
}
