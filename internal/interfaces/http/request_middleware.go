package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID cabecera con el identificador de la petición.
const HeaderRequestID = "X-Request-ID"

// LocalRequestID key de Fiber con el request id.
const LocalRequestID = "request_id"

// RequestLogger asigna el request id (X-Request-ID entrante o un uuid nuevo), lo devuelve en la
// respuesta, adjunta a la petición un logger con ese id y escribe una línea por petición.
func RequestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(LocalRequestID, reqID)
		c.Set(HeaderRequestID, reqID)

		l := base.With().Str("request_id", reqID).Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		err := c.Next()
		if err != nil {
			// el error handler escribe la respuesta antes de medir el status
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := l.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = l.Error()
		case status >= fiber.StatusBadRequest:
			ev = l.Warn()
		}
		if tenantID := GetTenantID(c); tenantID != "" {
			ev = ev.Str("tenant_id", tenantID)
		}
		ev.Str("method", c.Method()).
			Str("route", c.Route().Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

// GetRequestID devuelve el request id de la petición.
func GetRequestID(c *fiber.Ctx) string {
	return localString(c, LocalRequestID)
}
