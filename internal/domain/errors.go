package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con contexto (fmt.Errorf("...: %w", err)); la capa HTTP
// los traduce a códigos de estado con errors.Is.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrConflict         = errors.New("conflicto con un recurso existente")
	ErrInvalidReference = errors.New("referencia inválida")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
)
