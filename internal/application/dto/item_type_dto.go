package dto

// CreateItemTypeRequest entrada para crear una categoría.
type CreateItemTypeRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}

// ItemTypeResponse salida de una categoría.
type ItemTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
