package entity

// ItemType es una categoría de producto para los desplegables de la UI.
type ItemType struct {
	ID          string
	Name        string
	Description string
}

// DefaultItemTypes categorías sembradas al inicializar la base.
func DefaultItemTypes() []string {
	return []string{
		"Consumables",
		"Pharmacy Vials",
		"IV Vials",
		"Syringes",
		"Needles",
		"Bandages",
		"Medications",
		"Equipment",
		"Supplies",
	}
}
