package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// AddressFilter filtros del listado de direcciones.
type AddressFilter struct {
	ListParams
	Active   *bool
	ComunaID int
	Origin   entity.AddressOrigin
}

// AddressRepository puerto de persistencia para Address.
type AddressRepository interface {
	Create(ctx context.Context, a *entity.Address) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Address, error)
	Update(ctx context.Context, a *entity.Address) error
	List(ctx context.Context, tenantID string, f AddressFilter) (*Page[*entity.Address], error)
	// IncrementUsage suma 1 al contador de uso de cada dirección del tenant.
	IncrementUsage(ctx context.Context, tenantID string, ids ...string) error
}

// ComunaFilter filtros del catálogo de comunas.
type ComunaFilter struct {
	ListParams
	RegionCode string
}

// ComunaRepository puerto de lectura del catálogo global de comunas.
type ComunaRepository interface {
	GetByID(ctx context.Context, id int) (*entity.Comuna, error)
	List(ctx context.Context, f ComunaFilter) (*Page[*entity.Comuna], error)
}
