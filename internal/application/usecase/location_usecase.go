package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones (bolsas/gabinetes).
type LocationUseCase struct {
	repo      repository.LocationRepository
	stockRepo repository.StockRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, stockRepo repository.StockRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo, stockRepo: stockRepo}
}

// EnsureDefault siembra la ubicación por defecto (Cabinet) si no existe.
func (uc *LocationUseCase) EnsureDefault() error {
	existing, err := uc.repo.GetByName(entity.DefaultLocationName)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	now := time.Now()
	return uc.repo.Create(&entity.Location{
		ID:          uuid.New().String(),
		Name:        entity.DefaultLocationName,
		Description: "Almacenamiento principal",
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// Create crea una ubicación con nombre único.
func (uc *LocationUseCase) Create(in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
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
	location := &entity.Location{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	return toLocationResponse(location), nil
}

// Update actualiza nombre, descripción o estado activo.
func (uc *LocationUseCase) Update(id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
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
		if clash != nil && clash.ID != location.ID {
			return nil, domain.ErrDuplicate
		}
		location.Name = name
	}
	if in.Description != nil {
		location.Description = strings.TrimSpace(*in.Description)
	}
	if in.Active != nil {
		location.Active = *in.Active
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// Delete elimina una ubicación. La ubicación por defecto no se elimina, y una
// ubicación con stock positivo tampoco (trasladar primero); para ocultarla de
// los listados está la desactivación.
func (uc *LocationUseCase) Delete(id string) error {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrNotFound
	}
	if location.Name == entity.DefaultLocationName {
		return domain.ErrConflict
	}
	hasStock, err := uc.stockRepo.HasStock(id)
	if err != nil {
		return err
	}
	if hasStock {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

// List lista todas las ubicaciones.
func (uc *LocationUseCase) List() (*dto.LocationListResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{Items: items}, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Active:      l.Active,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
