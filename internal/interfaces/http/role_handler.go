package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
)

// RoleHandler maneja los roles (concesiones módulo + acción) del tenant.
type RoleHandler struct {
	uc *usecase.RoleUseCase
}

// NewRoleHandler construye el handler.
func NewRoleHandler(uc *usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear rol
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateRoleRequest  true  "Datos del rol"
// @Success      201   {object}  dto.RoleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRoleRequest
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
// @Summary      Listar roles
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        page    query     int     false  "Página"  default(1)
// @Param        limit   query     int     false  "Límite"  default(10)
// @Param        search  query     string  false  "Código o nombre"
// @Param        activo  query     bool    false  "Filtrar por activo"
// @Param        module  query     string  false  "Módulo"
// @Param        action  query     string  false  "Acción"
// @Success      200     {object}  dto.ListResponse[dto.RoleResponse]
// @Router       /api/roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	lq, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetTenantID(c), dto.RoleListQuery{
		ListQuery: lq,
		Module:    c.Query("module"),
		Action:    c.Query("action"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener rol
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del rol"
// @Success      200  {object}  dto.RoleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/roles/{id} [get]
func (h *RoleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar rol
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del rol"
// @Param        body  body      dto.UpdateRoleRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.RoleResponse
// @Router       /api/roles/{id} [put]
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
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
// @Summary      Desactivar rol
// @Tags         roles
// @Security     Bearer
// @Param        id   path  string  true  "ID del rol"
// @Success      204
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivar rol
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del rol"
// @Success      200  {object}  dto.RoleResponse
// @Router       /api/roles/{id}/activate [post]
func (h *RoleHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.uc.Reactivate(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
