package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/shipping"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// OrderHandler maneja las órdenes de transporte y su guía de despacho.
type OrderHandler struct {
	uc        *usecase.OrderUseCase
	documents *shipping.DocumentUseCase
	guard     *Guard
}

// NewOrderHandler construye el handler. guard se usa para exigir ELIMINAR al cancelar.
func NewOrderHandler(uc *usecase.OrderUseCase, documents *shipping.DocumentUseCase, guard *Guard) *OrderHandler {
	return &OrderHandler{uc: uc, documents: documents, guard: guard}
}

// Create godoc
// @Summary      Crear orden
// @Description  Valida todas las referencias antes de escribir. Sin código se genera ORD-AAAAMMDD-NNN.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateOrderRequest  true  "Datos de la orden"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        page       query     int     false  "Página"  default(1)
// @Param        limit      query     int     false  "Límite"  default(10)
// @Param        search     query     string  false  "Código u observaciones"
// @Param        status     query     string  false  "Estado"
// @Param        client_id  query     string  false  "Cliente"
// @Param        from       query     string  false  "Desde (AAAA-MM-DD o RFC 3339)"
// @Param        to         query     string  false  "Hasta (AAAA-MM-DD o RFC 3339)"
// @Success      200        {object}  dto.ListResponse[dto.OrderResponse]
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	lq, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	q := dto.OrderListQuery{ListQuery: lq, Status: c.Query("status"), ClientID: c.Query("client_id")}
	if q.From, q.FromDate, err = queryTime(c, "from"); err != nil {
		return respondError(c, err)
	}
	if q.To, q.ToDate, err = queryTime(c, "to"); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetTenantID(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar orden
// @Description  Solo medidas, bultos, observaciones y fecha programada, y solo en estado PENDIENTE.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "ID de la orden"
// @Param        body  body      dto.UpdateOrderRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la orden
// @Description  PENDIENTE → PLANIFICADA → EN_TRANSPORTE → ENTREGADA. Cancelar exige además ORDENES/ELIMINAR.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "ID de la orden"
// @Param        body  body      dto.ChangeOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if entity.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status))) == entity.OrderStatusCancelled {
		if ok, err := h.guard.authorize(c, entity.ModuleOrders, entity.ActionDelete); !ok {
			return err
		}
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Document godoc
// @Summary      Guía de despacho en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/document [get]
func (h *OrderHandler) Document(c *fiber.Ctx) error {
	pdf, filename, err := h.documents.Download(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
