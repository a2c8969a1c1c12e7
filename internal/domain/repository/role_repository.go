package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// RoleFilter filtros del listado de roles.
type RoleFilter struct {
	ListParams
	Active *bool
	Module entity.Module
	Action entity.Action
}

// RoleRepository puerto de persistencia para Role.
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Role, error)
	GetByCode(ctx context.Context, tenantID, code string) (*entity.Role, error)
	Update(ctx context.Context, role *entity.Role) error
	List(ctx context.Context, tenantID string, f RoleFilter) (*Page[*entity.Role], error)
	// CountByIDs cuenta cuántos de los ids existen en el tenant.
	CountByIDs(ctx context.Context, tenantID string, ids []string) (int, error)
}
