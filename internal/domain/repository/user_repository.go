package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// UserFilter filtros del listado de usuarios.
type UserFilter struct {
	ListParams
	Active    *bool
	ProfileID string
	Status    string
}

// UserRepository puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.User, error)
	// GetByEmail busca en todo el sistema: el email es único globalmente (login).
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, tenantID string, f UserFilter) (*Page[*entity.User], error)
	CountActive(ctx context.Context, tenantID string) (int, error)
}
