package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/authz"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// permissionChecker es el contrato mínimo que necesita el middleware; lo implementa *authz.Service.
type permissionChecker interface {
	Require(ctx context.Context, id authz.Identity, module entity.Module, action entity.Action) error
}

// deniedRecorder cuenta rechazos de autorización; lo implementa *metrics.HTTPMetrics.
type deniedRecorder interface {
	Denied(module, action string)
}

// Guard construye middlewares de permiso con un mismo checker y registro de rechazos.
type Guard struct {
	checker permissionChecker
	denied  deniedRecorder
}

// NewGuard construye el guard. denied puede ser nil.
func NewGuard(checker permissionChecker, denied deniedRecorder) *Guard {
	return &Guard{checker: checker, denied: denied}
}

// RequirePermission verifica que el perfil del token tenga (module, action).
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 si no hay identidad en el contexto o la cuenta ya no está habilitada.
//   - 403 si el permiso no está concedido.
//   - 500 si la resolución de permisos falla (nunca se degrada a 403).
func (g *Guard) RequirePermission(module entity.Module, action entity.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := g.authorize(c, module, action)
		if !ok {
			return err
		}
		return c.Next()
	}
}

// authorize verifica el permiso; si no se concede ya escribió la respuesta y ok es false.
func (g *Guard) authorize(c *fiber.Ctx, module entity.Module, action entity.Action) (bool, error) {
	id := GetIdentity(c)
	if id.TenantID == "" {
		return false, writeError(c, fiber.StatusUnauthorized, "identidad no encontrada en el token")
	}
	err := g.checker.Require(c.UserContext(), id, module, action)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, domain.ErrForbidden) {
		return false, respondError(c, err)
	}
	if g.denied != nil {
		g.denied.Denied(string(module), string(action))
	}
	zerolog.Ctx(c.UserContext()).Warn().Str("module", string(module)).Str("action", string(action)).Msg("permiso denegado")
	return false, writeError(c, fiber.StatusForbidden, "sin permiso "+string(action)+" sobre "+string(module))
}
