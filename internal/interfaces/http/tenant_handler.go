package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
)

// TenantHandler maneja las peticiones HTTP de tenants.
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

// NewTenantHandler construye el handler.
func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tenant
// @Description  Solo un tenant de tipo ADMIN puede crear tenants. Provisiona roles y perfil administrador.
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTenantRequest  true  "Datos del tenant"
// @Success      201   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar tenants
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        page    query     int     false  "Página"  default(1)
// @Param        limit   query     int     false  "Límite"  default(10)
// @Param        search  query     string  false  "Texto libre"
// @Param        activo  query     bool    false  "Filtrar por activo"
// @Param        type    query     string  false  "ADMIN, SHIPPER, CARRIER o CLIENT"
// @Success      200     {object}  dto.ListResponse[dto.TenantResponse]
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	lq, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetTenantID(c), dto.TenantListQuery{ListQuery: lq, Type: c.Query("type")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener tenant
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del tenant"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [get]
func (h *TenantHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tenant
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "ID del tenant"
// @Param        body  body      dto.UpdateTenantRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [put]
func (h *TenantHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar tenant
// @Description  Falla con 409 mientras el tenant tenga usuarios activos.
// @Tags         tenants
// @Security     Bearer
// @Param        id   path  string  true  "ID del tenant"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [delete]
func (h *TenantHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivar tenant
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del tenant"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/activate [post]
func (h *TenantHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.uc.Reactivate(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
