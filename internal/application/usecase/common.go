package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-api/pkg/rut"
)

// Pagination límites de los listados.
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultPagination límites por defecto (10 por página, máximo 100).
var DefaultPagination = Pagination{DefaultLimit: repository.DefaultPageLimit, MaxLimit: repository.MaxPageLimit}

// Params valida page/limit: page < 1 se toma como 1, limit 0 como el valor por defecto;
// un limit negativo o mayor al máximo es ErrInvalidInput.
func (p Pagination) Params(q dto.ListQuery) (repository.ListParams, error) {
	def, maxLimit := p.DefaultLimit, p.MaxLimit
	if def <= 0 {
		def = repository.DefaultPageLimit
	}
	if maxLimit <= 0 {
		maxLimit = repository.MaxPageLimit
	}
	limit := q.Limit
	if limit == 0 {
		limit = def
	}
	if limit < 1 || limit > maxLimit {
		return repository.ListParams{}, fmt.Errorf("limit debe estar entre 1 y %d: %w", maxLimit, domain.ErrInvalidInput)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return repository.ListParams{Page: page, Limit: limit, Search: strings.TrimSpace(q.Search)}, nil
}

// listResponse arma el envoltorio {items, total, page, limit}.
func listResponse[E, R any](page *repository.Page[E], params repository.ListParams, conv func(E) R) *dto.ListResponse[R] {
	items := make([]R, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, conv(e))
	}
	return &dto.ListResponse[R]{Items: items, Total: page.Total, Page: params.Page, Limit: params.Limit}
}

// isDomainError indica un error esperado de la taxonomía de dominio.
func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrConflict, domain.ErrInvalidReference,
		domain.ErrInvalidInput, domain.ErrUnauthorized, domain.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// fail agrega contexto al error. Los fallos inesperados (persistencia) se registran
// con el logger de la petición antes de propagarse.
func fail(ctx context.Context, op string, err error) error {
	if !isDomainError(err) && !errors.Is(err, context.Canceled) {
		zerolog.Ctx(ctx).Error().Err(err).Str("op", op).Msg("fallo inesperado")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, domain.ErrInvalidInput)...)
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
}

func invalidRef(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrInvalidReference)
}

// normalizeRUT valida y normaliza un RUT obligatorio.
func normalizeRUT(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", invalid("%s es obligatorio", field)
	}
	if !rut.Validate(value) {
		return "", invalid("%s %q no es un RUT válido", field, value)
	}
	return rut.Normalize(value), nil
}

// clock reloj inyectable de los casos de uso.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
