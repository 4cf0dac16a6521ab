package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/domain"
)

func errDTO(code, message string) dto.ErrorResponse {
	return dto.ErrorResponse{Code: code, Message: message}
}

// respondError mapea los errores sentinela del dominio a códigos HTTP.
// Todos los conflictos de estado van en 409 con códigos distintos para que la UI
// pueda diferenciarlos (stock insuficiente, auditoría obsoleta, ya revertido).
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(errDTO("VALIDATION", "datos inválidos"))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errDTO("NOT_FOUND", "recurso no encontrado"))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(errDTO("DUPLICATE", "ya existe un recurso con ese nombre"))
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(errDTO("INSUFFICIENT_STOCK", "stock insuficiente"))
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(errDTO("STALE_COUNT", "el stock cambió durante el conteo; reintente con un conteo fresco"))
	case errors.Is(err, domain.ErrAlreadyUndone):
		return c.Status(fiber.StatusConflict).JSON(errDTO("ALREADY_UNDONE", "el movimiento ya fue revertido"))
	case errors.Is(err, domain.ErrNotUndoable):
		return c.Status(fiber.StatusConflict).JSON(errDTO("NOT_UNDOABLE", "el movimiento no admite reversión"))
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(errDTO("CONFLICT", "la operación entra en conflicto con el estado actual"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(errDTO("INTERNAL", err.Error()))
	}
}
