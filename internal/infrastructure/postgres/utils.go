package postgres

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// isForeignKeyViolation 23503: la fila referenciada no existe (o es de otro tenant).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// isInvalidText 22P02: por ejemplo un id que no es UUID.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}

// mapWriteError traduce errores de escritura a errores de dominio.
func mapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	case isForeignKeyViolation(err), isInvalidText(err):
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidReference)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// requireTenant toda operación sobre datos de negocio exige un tenant válido.
func requireTenant(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" || !validID(tenantID) {
		return fmt.Errorf("tenant requerido: %w", domain.ErrUnauthorized)
	}
	return nil
}

// validID un id que no es UUID no puede existir: las lecturas lo tratan como no encontrado.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// validIDs descarta los ids que no son UUID.
func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldSearch pasa el término a minúsculas sin tildes y escapa los comodines de LIKE.
func foldSearch(term string) string {
	folded, _, err := transform.String(accentFolder, strings.TrimSpace(term))
	if err != nil {
		folded = strings.TrimSpace(term)
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(folded)) + "%"
}

// searchClause OR de columnas comparadas sin tildes ni mayúsculas. Nil si no hay término.
func searchClause(term string, cols ...string) sq.Sqlizer {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	pattern := foldSearch(term)
	or := sq.Or{}
	for _, c := range cols {
		or = append(or, sq.Expr("lower(unaccent(coalesce("+c+", ''))) LIKE ?", pattern))
	}
	return or
}

// paginate aplica LIMIT/OFFSET de ListParams.
func paginate(b sq.SelectBuilder, p repository.ListParams) sq.SelectBuilder {
	limit := p.Limit
	if limit <= 0 {
		limit = repository.DefaultPageLimit
	}
	return b.Limit(uint64(limit)).Offset(uint64(p.Offset()))
}

// nullIfEmpty guarda NULL para claves foráneas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
