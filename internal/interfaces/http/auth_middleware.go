package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/authz"
	"github.com/jhoicas/Logistica-api/pkg/jwt"
)

// Locals keys de la identidad verificada en Fiber.
const (
	LocalUserID    = "user_id"
	LocalTenantID  = "tenant_id"
	LocalProfileID = "profile_id"
)

// AuthMiddleware valida el Bearer Token JWT, resuelve el tenant y deja la identidad en c.Locals.
// Sin tenant resoluble la petición se rechaza con 401 antes de llegar al handler.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return writeError(c, fiber.StatusUnauthorized, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return writeError(c, fiber.StatusUnauthorized, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return writeError(c, fiber.StatusUnauthorized, "token vacío")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return writeError(c, fiber.StatusUnauthorized, "token inválido o expirado")
		}
		id, err := authz.IdentityFromClaims(claims)
		if err != nil {
			return writeError(c, fiber.StatusUnauthorized, "token sin tenant, usuario o perfil")
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalTenantID, id.TenantID)
		c.Locals(LocalProfileID, id.ProfileID)

		// el logger de la petición pasa a llevar el tenant y el usuario
		l := zerolog.Ctx(c.UserContext()).With().Str("tenant_id", id.TenantID).Str("user_id", id.UserID).Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetIdentity devuelve la identidad del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) authz.Identity {
	return authz.Identity{
		UserID:    localString(c, LocalUserID),
		TenantID:  localString(c, LocalTenantID),
		ProfileID: localString(c, LocalProfileID),
	}
}

// GetTenantID devuelve el tenant resuelto del token.
func GetTenantID(c *fiber.Ctx) string {
	return localString(c, LocalTenantID)
}

// GetUserID devuelve el usuario del token.
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}
