package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// CatalogFilter filtros de un catálogo.
type CatalogFilter struct {
	ListParams
	Active *bool
}

// CatalogRepository puerto de persistencia para los catálogos por tenant
// (tipos de carga, tipos de servicio, equipos).
type CatalogRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	GetByID(ctx context.Context, tenantID string, kind entity.CatalogKind, id string) (*entity.CatalogItem, error)
	List(ctx context.Context, tenantID string, kind entity.CatalogKind, f CatalogFilter) (*Page[*entity.CatalogItem], error)
}
