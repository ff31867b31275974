package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

// InventoryHandler maneja el libro de movimientos (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  ENTRADA suma al stock; SALIDA resta con piso en cero. El movimiento y el stock se confirman juntos.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterMovement(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Más recientes primero. product_id filtra por producto.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id       query  string  false  "ID del producto"
// @Param        include_deleted  query  bool    false  "Incluir borrados"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var (
		out *dto.MovementListResponse
		err error
	)
	if productID := c.Query("product_id"); productID != "" {
		out, err = h.uc.ListForProduct(c.Context(), GetActor(c), productID, includeDeleted(c))
	} else {
		out, err = h.uc.ListAll(c.Context(), GetActor(c), includeDeleted(c))
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListProductMovements GET /api/products/:id/movements
func (h *InventoryHandler) ListProductMovements(c *fiber.Ctx) error {
	out, err := h.uc.ListForProduct(c.Context(), GetActor(c), c.Params("id"), includeDeleted(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteMovement godoc
// @Summary      Borrado lógico de movimiento
// @Description  No revierte el efecto sobre el stock.
// @Tags         inventory
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [delete]
func (h *InventoryHandler) DeleteMovement(c *fiber.Ctx) error {
	if err := h.uc.SoftDeleteMovement(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
