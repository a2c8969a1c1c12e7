package repository

// Límites de paginación compartidos por todos los listados.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ListParams paginación (página 1-indexada) y búsqueda de texto libre.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// Offset devuelve la cantidad de filas a saltar: (page-1) * limit.
func (p ListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Page es una página de resultados junto al total de filas que cumplen el filtro.
// Items y Total provienen de la misma lectura consistente.
type Page[T any] struct {
	Items []T
	Total int
}
