package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
)

const internalMessage = "error interno del servidor"

// statusFor traduce un error de dominio a su código HTTP; cualquier otro error es 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidReference), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// errorBody arma el cuerpo de error {message, statusCode, error}.
func errorBody(status int, message string) dto.ErrorResponse {
	return dto.ErrorResponse{Message: message, StatusCode: status, Error: utils.StatusMessage(status)}
}

// writeError responde con status y mensaje.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorBody(status, message))
}

// respondError responde el error de un caso de uso. Los errores no clasificados nunca
// exponen su texto al cliente.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		zerolog.Ctx(c.UserContext()).Error().Err(err).Str("route", c.Route().Path).Msg("error no controlado")
		return writeError(c, status, internalMessage)
	}
	return writeError(c, status, err.Error())
}

// badBody responde 400 cuando el cuerpo no se puede decodificar.
func badBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "cuerpo de la petición inválido")
}

// ErrorHandler reemplaza el manejador de errores de Fiber para usar el mismo cuerpo de error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg := fe.Message
		if fe.Code >= fiber.StatusInternalServerError {
			msg = internalMessage
		}
		return writeError(c, fe.Code, msg)
	}
	return respondError(c, err)
}
