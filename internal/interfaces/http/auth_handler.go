package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/auth"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
)

// AuthHandler maneja login e identidad del actor.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Devuelve un JWT con user_id, tenant_id y profile_id.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Identidad del actor
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Permissions godoc
// @Summary      Permisos resueltos del actor
// @Description  Pares (módulo, acción) concedidos por los roles activos del perfil.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.PermissionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/permissions [get]
func (h *AuthHandler) Permissions(c *fiber.Ctx) error {
	out, err := h.uc.Permissions(c.UserContext(), GetIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
