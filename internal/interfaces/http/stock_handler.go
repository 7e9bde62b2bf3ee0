package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/application/stock"
)

// StockHandler maneja las mutaciones directas de stock y las consultas del
// libro (protegido).
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler de stock.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Assign godoc
// @Summary      Asignar stock a una bodega
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignStockRequest  true  "warehouse_id, item_id, quantity > 0"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/assign [post]
func (h *StockHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Assign(c.Context(), GetActor(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Retirar stock de una bodega
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RemoveStockRequest  true  "warehouse_id, item_id, quantity > 0"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/remove [post]
func (h *StockHandler) Remove(c *fiber.Ctx) error {
	var in dto.RemoveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Remove(c.Context(), GetActor(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajustar stock (delta con signo)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "warehouse_id, item_id, quantity != 0, remark"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Adjust(c.Context(), GetActor(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetBalance godoc
// @Summary      Consultar saldo de un ítem en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "Bodega (UUID)"
// @Param        item_id       path  string  true  "Ítem (UUID)"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/stock/{warehouse_id}/{item_id} [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	out, err := h.uc.GetBalance(c.Context(), c.Params("warehouse_id"), c.Params("item_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListBalances godoc
// @Summary      Listar saldos de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "Bodega (UUID)"
// @Param        limit         query  int     false  "Máximo de filas (default 20)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/stock/{warehouse_id} [get]
func (h *StockHandler) ListBalances(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListBalances(c.Context(), c.Params("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos del libro
// @Description  Filtra por bodega o por ítem (exactamente uno), con rango de
//
//	fechas opcional en RFC3339.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega (UUID)"
// @Param        item_id       query  string  false  "Ítem (UUID)"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	itemID := c.Query("item_id")
	if (warehouseID == "") == (itemID == "") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "indicar warehouse_id o item_id (exactamente uno)"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	var out []dto.MovementResponse
	if warehouseID != "" {
		out, err = h.uc.ListMovementsByWarehouse(c.Context(), warehouseID, from, to, page.Limit, page.Offset)
	} else {
		out, err = h.uc.ListMovementsByItem(c.Context(), itemID, from, to, page.Limit, page.Offset)
	}
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
