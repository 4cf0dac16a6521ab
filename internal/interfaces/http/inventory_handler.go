package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/application/ledger"
	"github.com/medtrack/inventory-api/internal/application/usecase"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// InventoryHandler maneja movimientos, auditorías, stock e importación CSV.
type InventoryHandler struct {
	recorder   *ledger.Recorder
	undoer     *ledger.Undoer
	reconciler *ledger.Reconciler
	stockQuery *usecase.StockQueryUseCase
	history    *usecase.HistoryUseCase
	auditQuery *usecase.AuditQueryUseCase
	importer   *usecase.ImportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	recorder *ledger.Recorder,
	undoer *ledger.Undoer,
	reconciler *ledger.Reconciler,
	stockQuery *usecase.StockQueryUseCase,
	history *usecase.HistoryUseCase,
	auditQuery *usecase.AuditQueryUseCase,
	importer *usecase.ImportUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		recorder:   recorder,
		undoer:     undoer,
		reconciler: reconciler,
		stockQuery: stockQuery,
		history:    history,
		auditQuery: auditQuery,
		importer:   importer,
	}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  add/usage/wastage requieren product_id, location_id y quantity;
//               transfer requiere from_location_id y to_location_id.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "movimiento"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errDTO("INVALID_BODY", "cuerpo inválido"))
	}
	input := ledger.MovementInput{
		Kind:           in.Type,
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		BatchNumber:    in.BatchNumber,
		MinStock:       in.MinStock,
		Notes:          in.Notes,
		Actor:          GetActor(c),
	}
	if in.ExpiryDate != nil && *in.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", *in.ExpiryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errDTO("VALIDATION", "expiry_date debe ser YYYY-MM-DD"))
		}
		input.ExpiryDate = &parsed
	}
	result, err := h.recorder.Record(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(result))
}

// Undo godoc
// @Summary      Revertir un movimiento
// @Description  Revierte la acción lógica completa a la que pertenece el movimiento
//               (par de traslado, lote de auditoría o importación).
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      201  {object}  dto.MovementResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/undo [post]
func (h *InventoryHandler) Undo(c *fiber.Ctx) error {
	result, err := h.undoer.Undo(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(result))
}

// History godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Produce      json
// @Param        location_id  query  string  false  "filtrar por ubicación"
// @Param        product_id   query  string  false  "filtrar por producto"
// @Param        kind         query  string  false  "filtrar por tipo de movimiento"
// @Param        limit        query  int     false  "tamaño de página (default 50)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.HistoryResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		LocationID: c.Query("location_id"),
		ProductID:  c.Query("product_id"),
		Kind:       c.Query("kind"),
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	resp, err := h.history.List(filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// RecordAudit godoc
// @Summary      Registrar auditoría física
// @Description  Reconcilia un reconteo contra el ledger. Cada línea trae expected
//               (cantidad vista al iniciar el conteo) y counted; si el stock cambió
//               desde entonces, el lote completo se rechaza con 409 STALE_COUNT.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordAuditRequest  true  "conteo"
// @Success      201   {object}  dto.AuditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/audits [post]
func (h *InventoryHandler) RecordAudit(c *fiber.Ctx) error {
	var in dto.RecordAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errDTO("INVALID_BODY", "cuerpo inválido"))
	}
	lines := make([]ledger.CountInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.CountInput{ProductID: l.ProductID, Expected: l.Expected, Counted: l.Counted})
	}
	result, err := h.reconciler.Reconcile(c.Context(), in.LocationID, lines, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usecase.ToAuditResponse(result.Record, result.Entries))
}

// ListAudits godoc
// @Summary      Auditorías de una ubicación
// @Tags         inventory
// @Produce      json
// @Param        location_id  query  string  true  "ubicación"
// @Success      200  {array}  dto.AuditResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/audits [get]
func (h *InventoryHandler) ListAudits(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	audits, err := h.auditQuery.ListByLocation(c.Query("location_id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(audits)
}

// ListStock godoc
// @Summary      Stock actual
// @Tags         inventory
// @Produce      json
// @Param        location_id   query  string  false  "filtrar por ubicación"
// @Param        search        query  string  false  "subcadena sobre nombre, presentación o lote"
// @Param        type          query  string  false  "categoría"
// @Param        expiry        query  string  false  "expired | expiring"
// @Param        include_zero  query  bool    false  "incluir filas en cero"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	filter := repository.StockFilter{
		LocationID:  c.Query("location_id"),
		Search:      c.Query("search"),
		Type:        c.Query("type"),
		Expiry:      c.Query("expiry"),
		IncludeZero: c.QueryBool("include_zero"),
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()
	list, err := h.stockQuery.List(filter, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ExpiryReport godoc
// @Summary      Reporte de vencimientos
// @Description  Stock vencido y stock que vence dentro de la ventana de 30 días.
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.ExpiryReportResponse
// @Router       /api/inventory/expiry [get]
func (h *InventoryHandler) ExpiryReport(c *fiber.Ctx) error {
	report, err := h.stockQuery.ExpiryReport()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// ImportCSV godoc
// @Summary      Importación masiva desde CSV
// @Description  Columnas: name, type, quantity (obligatorias); size, expiry_date,
//               batch_number, bag (opcionales). Las filas inválidas se reportan,
//               las válidas se comprometen bajo un único group_id.
// @Tags         inventory
// @Accept       text/csv
// @Produce      json
// @Success      200  {object}  dto.ImportResultResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/import [post]
func (h *InventoryHandler) ImportCSV(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errDTO("INVALID_BODY", "cuerpo CSV vacío"))
	}
	result, err := h.importer.ImportCSV(c.Context(), bytes.NewReader(body), GetActor(c))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errDTO("INVALID_CSV", err.Error()))
	}
	return c.JSON(result)
}

func toMovementResult(result *ledger.MovementResult) dto.MovementResultResponse {
	resp := dto.MovementResultResponse{GroupID: result.GroupID}
	for _, m := range result.Entries {
		resp.Movements = append(resp.Movements, usecase.ToMovementResponse(m))
	}
	for _, s := range result.Stocks {
		resp.Stocks = append(resp.Stocks, usecase.ToStockSnapshot(s))
	}
	return resp
}
