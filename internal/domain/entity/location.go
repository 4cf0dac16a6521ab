package entity

import "time"

// DefaultLocationName ubicación sembrada al arranque; no puede eliminarse.
const DefaultLocationName = "Cabinet"

// Location representa una bolsa o gabinete físico donde se almacenan items.
type Location struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
