package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/application/usecase"
)

// ItemTypeHandler maneja el catálogo de categorías (desplegables de la UI).
type ItemTypeHandler struct {
	uc *usecase.ItemTypeUseCase
}

// NewItemTypeHandler construye el handler.
func NewItemTypeHandler(uc *usecase.ItemTypeUseCase) *ItemTypeHandler {
	return &ItemTypeHandler{uc: uc}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         item-types
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemTypeRequest  true  "name, description"
// @Success      201   {object}  dto.ItemTypeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/item-types [post]
func (h *ItemTypeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errDTO("INVALID_BODY", "cuerpo inválido"))
	}
	itemType, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(itemType)
}

// List godoc
// @Summary      Listar categorías
// @Tags         item-types
// @Produce      json
// @Success      200  {array}  dto.ItemTypeResponse
// @Router       /api/item-types [get]
func (h *ItemTypeHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
