package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// SearchCache puerto de caché read-through para el autocompletado de productos.
// La implementación Redis es opcional; con nil el caso de uso va directo a BD.
type SearchCache interface {
	GetSearch(ctx context.Context, query string) ([]dto.ProductSearchResult, bool, error)
	SetSearch(ctx context.Context, query string, results []dto.ProductSearchResult) error
	// Invalidate descarta todas las búsquedas cacheadas (tras mutar el catálogo).
	Invalidate(ctx context.Context) error
}

// ProductUseCase casos de uso CRUD y de consulta para el catálogo de productos.
// El stock se maneja exclusivamente vía movimientos del ledger.
type ProductUseCase struct {
	repo  repository.ProductRepository
	cache SearchCache
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, cache SearchCache) *ProductUseCase {
	return &ProductUseCase{repo: repo, cache: cache}
}

// Create crea un producto. El nombre es único sin distinguir mayúsculas.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	typ := strings.TrimSpace(in.Type)
	if name == "" || typ == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock != nil && (in.MinStock.IsNegative() || !in.MinStock.Equal(in.MinStock.Truncate(0))) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      typ,
		Brand:     strings.TrimSpace(in.Brand),
		Size:      strings.TrimSpace(in.Size),
		MinStock:  in.MinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos descriptivos; la identidad (ID) es inmutable.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		clash, err := uc.repo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if clash != nil && clash.ID != product.ID {
			return nil, domain.ErrDuplicate
		}
		product.Name = name
	}
	if in.Type != nil {
		if strings.TrimSpace(*in.Type) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Type = strings.TrimSpace(*in.Type)
	}
	if in.Brand != nil {
		product.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Size != nil {
		product.Size = strings.TrimSpace(*in.Size)
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() || !in.MinStock.Equal(in.MinStock.Truncate(0)) {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = in.MinStock
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto sin stock ni movimientos (el adaptador mapea la
// violación de FK a domain.ErrConflict).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// Search autocompletado por subcadena de nombre (read-through sobre la caché).
// Una consulta vacía devuelve lista vacía en vez de error.
func (uc *ProductUseCase) Search(ctx context.Context, query string, limit int) ([]dto.ProductSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.ProductSearchResult{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	key := strings.ToLower(query)
	if uc.cache != nil {
		if hit, ok, err := uc.cache.GetSearch(ctx, key); err == nil && ok {
			return hit, nil
		}
	}
	list, err := uc.repo.Search(query, limit)
	if err != nil {
		return nil, err
	}
	results := make([]dto.ProductSearchResult, 0, len(list))
	for _, p := range list {
		results = append(results, dto.ProductSearchResult{
			Name: p.Name, Type: p.Type, Brand: p.Brand, Size: p.Size,
		})
	}
	if uc.cache != nil {
		_ = uc.cache.SetSearch(ctx, key, results) // best effort
	}
	return results, nil
}

// Exists chequeo de duplicados por nombre exacto (sin distinguir mayúsculas).
// La UI usa Type para decidir si muestra el campo de stock mínimo.
func (uc *ProductUseCase) Exists(ctx context.Context, name string) (*dto.ProductExistsResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return &dto.ProductExistsResponse{Exists: false}, nil
	}
	product, err := uc.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return &dto.ProductExistsResponse{Exists: false}, nil
	}
	return &dto.ProductExistsResponse{Exists: true, Type: product.Type}, nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context) {
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx)
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Type:      p.Type,
		Brand:     p.Brand,
		Size:      p.Size,
		MinStock:  p.MinStock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
