package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
)

// listQuery lee ?page=&limit=&search=&activo=. Valores no numéricos o booleanos mal formados
// son ErrInvalidInput; los rangos los valida el caso de uso.
func listQuery(c *fiber.Ctx) (dto.ListQuery, error) {
	var q dto.ListQuery
	var err error
	if q.Page, err = queryInt(c, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		return q, err
	}
	q.Search = strings.TrimSpace(c.Query("search"))
	if raw := c.Query("activo"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return q, fmt.Errorf("activo debe ser true o false: %w", domain.ErrInvalidInput)
		}
		q.Activo = &v
	}
	return q, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s debe ser numérico: %w", key, domain.ErrInvalidInput)
	}
	return v, nil
}

// queryTime acepta fecha (2006-01-02) o RFC 3339. dateOnly indica que llegó solo la fecha.
func queryTime(c *fiber.Ctx, key string) (t *time.Time, dateOnly bool, err error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, false, nil
	}
	if v, err := time.Parse(time.RFC3339, raw); err == nil {
		return &v, false, nil
	}
	if v, err := time.Parse("2006-01-02", raw); err == nil {
		return &v, true, nil
	}
	return nil, false, fmt.Errorf("%s debe ser una fecha (AAAA-MM-DD o RFC 3339): %w", key, domain.ErrInvalidInput)
}
