package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
)

// ProfileHandler maneja perfiles y sus vínculos con roles.
type ProfileHandler struct {
	uc *usecase.ProfileUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Create godoc
// @Summary      Crear perfil
// @Tags         profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProfileRequest  true  "Datos del perfil"
// @Success      201   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/profiles [post]
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProfileRequest
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
// @Summary      Listar perfiles
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Param        page    query     int     false  "Página"  default(1)
// @Param        limit   query     int     false  "Límite"  default(10)
// @Param        search  query     string  false  "Nombre o descripción"
// @Param        activo  query     bool    false  "Filtrar por activo"
// @Param        type    query     string  false  "BASICO, AVANZADO o ADMINISTRADOR"
// @Success      200     {object}  dto.ListResponse[dto.ProfileResponse]
// @Router       /api/profiles [get]
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	lq, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetTenantID(c), dto.ProfileListQuery{ListQuery: lq, Type: c.Query("type")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener perfil
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del perfil"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [get]
func (h *ProfileHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil
// @Tags         profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID del perfil"
// @Param        body  body      dto.UpdateProfileRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProfileResponse
// @Router       /api/profiles/{id} [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
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
// @Summary      Desactivar perfil
// @Tags         profiles
// @Security     Bearer
// @Param        id   path  string  true  "ID del perfil"
// @Success      204
// @Router       /api/profiles/{id} [delete]
func (h *ProfileHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivar perfil
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del perfil"
// @Success      200  {object}  dto.ProfileResponse
// @Router       /api/profiles/{id}/activate [post]
func (h *ProfileHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.uc.Reactivate(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Roles godoc
// @Summary      Roles vinculados a un perfil
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del perfil"
// @Success      200  {array}   dto.RoleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profiles/{id}/roles [get]
func (h *ProfileHandler) Roles(c *fiber.Ctx) error {
	out, err := h.uc.Roles(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetRoles godoc
// @Summary      Reemplazar roles de un perfil
// @Description  Todos los roles deben pertenecer al tenant; si alguno no, no se modifica nada.
// @Tags         profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID del perfil"
// @Param        body  body      dto.SetProfileRolesRequest  true  "IDs de roles"
// @Success      200   {array}   dto.RoleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/profiles/{id}/roles [put]
func (h *ProfileHandler) SetRoles(c *fiber.Ctx) error {
	var in dto.SetProfileRolesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetRoles(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
