package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// EntityFilter filtros del listado de entidades.
type EntityFilter struct {
	ListParams
	Active *bool
	Type   entity.EntityType
}

// EntityRepository puerto de persistencia para Entidad (supertipo de partes).
type EntityRepository interface {
	Create(ctx context.Context, e *entity.Entidad) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Entidad, error)
	GetByTaxID(ctx context.Context, tenantID, taxID string) (*entity.Entidad, error)
	Update(ctx context.Context, e *entity.Entidad) error
	List(ctx context.Context, tenantID string, f EntityFilter) (*Page[*entity.Entidad], error)
}

// PartyFilter filtros del listado de clientes, transportistas o embarcadores.
type PartyFilter struct {
	ListParams
	Active *bool
}

// PartyRepository puerto de persistencia para los registros especializados.
// kind selecciona la tabla (clientes, transportistas o embarcadores); las lecturas
// incluyen la Entidad asociada.
type PartyRepository interface {
	Create(ctx context.Context, rec *entity.PartyRecord) error
	GetByID(ctx context.Context, tenantID string, kind entity.EntityType, id string) (*entity.PartyRecord, error)
	GetByTaxID(ctx context.Context, tenantID string, kind entity.EntityType, taxID string) (*entity.PartyRecord, error)
	Update(ctx context.Context, rec *entity.PartyRecord) error
	List(ctx context.Context, tenantID string, kind entity.EntityType, f PartyFilter) (*Page[*entity.PartyRecord], error)
}
