package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// TenantFilter filtros del listado de tenants.
type TenantFilter struct {
	ListParams
	Active *bool
	Type   entity.TenantType
}

// TenantRepository puerto de persistencia para Tenant. Es el único repositorio no acotado
// por tenant: el tenant es la frontera de aislamiento.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	// LockByID como GetByID pero bloquea la fila hasta el fin de la transacción.
	LockByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	List(ctx context.Context, f TenantFilter) (*Page[*entity.Tenant], error)
}
