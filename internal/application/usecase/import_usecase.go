package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/application/ledger"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// Formatos de fecha aceptados en la columna expiry_date del CSV.
var csvDateLayouts = []string{"2006-01-02", "01/02/2006"}

// ImportUseCase importación masiva de altas desde CSV.
// Columnas: name, type, quantity (obligatorias); size, expiry_date, batch_number,
// bag (opcionales). Productos y bolsas desconocidos se crean sobre la marcha.
// Los errores por fila se acumulan y se reportan; las filas válidas se
// comprometen bajo un único GroupID (toda la importación se revierte junta).
type ImportUseCase struct {
	recorder     *ledger.Recorder
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	recorder *ledger.Recorder,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *ImportUseCase {
	return &ImportUseCase{
		recorder:     recorder,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// ImportCSV procesa el archivo y devuelve el conteo de filas importadas y los errores.
func (uc *ImportUseCase) ImportCSV(ctx context.Context, r io.Reader, actor string) (*dto.ImportResultResponse, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado CSV: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "type", "quantity"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("columna obligatoria ausente: %s", required)
		}
	}

	groupID := uuid.New().String()
	result := &dto.ImportResultResponse{GroupID: groupID}

	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Message: "fila ilegible"})
			continue
		}
		if err := uc.importRow(ctx, cols, record, groupID, actor); err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, cols map[string]int, record []string, groupID, actor string) error {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := field("name")
	typ := field("type")
	qtyStr := field("quantity")
	if name == "" || typ == "" || qtyStr == "" {
		return fmt.Errorf("faltan campos obligatorios (name, type, quantity)")
	}
	quantity, err := decimal.NewFromString(qtyStr)
	if err != nil || !quantity.IsPositive() || !quantity.Equal(quantity.Truncate(0)) {
		return fmt.Errorf("cantidad inválida: %q", qtyStr)
	}

	var expiry *time.Time
	if raw := field("expiry_date"); raw != "" {
		parsed, err := parseCSVDate(raw)
		if err != nil {
			return fmt.Errorf("fecha de vencimiento inválida: %q", raw)
		}
		expiry = parsed
	}

	product, err := uc.ensureProduct(name, typ, field("size"))
	if err != nil {
		return err
	}
	bagName := field("bag")
	if bagName == "" {
		bagName = entity.DefaultLocationName
	}
	location, err := uc.ensureLocation(bagName)
	if err != nil {
		return err
	}

	_, err = uc.recorder.Record(ctx, ledger.MovementInput{
		Kind:        entity.MovementKindAdd,
		ProductID:   product.ID,
		LocationID:  location.ID,
		Quantity:    quantity,
		ExpiryDate:  expiry,
		BatchNumber: field("batch_number"),
		Notes:       "importación CSV",
		Actor:       actor,
		GroupID:     groupID,
	})
	return err
}

func (uc *ImportUseCase) ensureProduct(name, typ, size string) (*entity.Product, error) {
	existing, err := uc.productRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      typ,
		Size:      size,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (uc *ImportUseCase) ensureLocation(name string) (*entity.Location, error) {
	existing, err := uc.locationRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	now := time.Now()
	location := &entity.Location{
		ID:          uuid.New().String(),
		Name:        name,
		Description: "creada por importación CSV",
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.locationRepo.Create(location); err != nil {
		return nil, err
	}
	return location, nil
}

func parseCSVDate(raw string) (*time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("formato de fecha no reconocido")
}
