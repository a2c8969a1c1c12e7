package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/access"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// ProfileFilter filtros del listado de perfiles.
type ProfileFilter struct {
	ListParams
	Active *bool
	Type   string
}

// ProfileRepository puerto de persistencia para Profile y sus vínculos con roles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	List(ctx context.Context, tenantID string, f ProfileFilter) (*Page[*entity.Profile], error)

	// ReplaceRoles reemplaza los vínculos perfil-rol. Debe ejecutarse dentro de una transacción.
	ReplaceRoles(ctx context.Context, tenantID, profileID string, roleIDs []string) error
	ListRoles(ctx context.Context, tenantID, profileID string) ([]*entity.Role, error)
	// Grants devuelve los pares (módulo, acción) distintos de los roles activos vinculados al perfil.
	Grants(ctx context.Context, tenantID, profileID string) ([]access.Grant, error)
}
