package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto del catálogo.
type CreateProductRequest struct {
	Name     string           `json:"name" validate:"required,min=1,max=200"`
	Type     string           `json:"type" validate:"required,min=1,max=100"`
	Brand    string           `json:"brand"`
	Size     string           `json:"size"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
}

// UpdateProductRequest entrada para actualizar campos descriptivos (la identidad es inmutable).
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Type     *string          `json:"type"`
	Brand    *string          `json:"brand"`
	Size     *string          `json:"size"`
	MinStock *decimal.Decimal `json:"min_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Brand     string           `json:"brand,omitempty"`
	Size      string           `json:"size,omitempty"`
	MinStock  *decimal.Decimal `json:"min_stock,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductSearchResult fila del autocompletado de la UI (búsqueda con debounce).
type ProductSearchResult struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Brand string `json:"brand,omitempty"`
	Size  string `json:"size,omitempty"`
}

// ProductExistsResponse resultado del chequeo de duplicados por nombre.
// Type permite a la UI decidir si muestra el campo de stock mínimo.
type ProductExistsResponse struct {
	Exists bool   `json:"exists"`
	Type   string `json:"type,omitempty"`
}
