package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var actionLabels = map[entity.Action]string{
	entity.ActionView:       "Ver",
	entity.ActionCreate:     "Crear",
	entity.ActionEdit:       "Editar",
	entity.ActionDelete:     "Eliminar",
	entity.ActionReactivate: "Activar",
}

// provisionAdminProfile crea un rol por cada par (módulo, acción) del vocabulario y un
// perfil ADMINISTRADOR vinculado a todos. Corre dentro de la transacción de alta del tenant.
func provisionAdminProfile(ctx context.Context, tenantID string, profiles repository.ProfileRepository, roles repository.RoleRepository, now time.Time) (*entity.Profile, error) {
	roleIDs := make([]string, 0, len(entity.Modules)*len(entity.Actions))
	for mi, m := range entity.Modules {
		for ai, a := range entity.Actions {
			role := &entity.Role{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				Code:      fmt.Sprintf("%s_%s", m, a),
				Name:      fmt.Sprintf("%s %s", actionLabels[a], strings.ToLower(string(m))),
				Module:    m,
				Action:    a,
				Order:     mi*10 + ai,
				Visible:   true,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := roles.Create(ctx, role); err != nil {
				return nil, fmt.Errorf("rol %s: %w", role.Code, err)
			}
			roleIDs = append(roleIDs, role.ID)
		}
	}
	profile := &entity.Profile{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        "Administrador",
		Description: "Acceso completo a todos los módulos",
		Type:        entity.ProfileTypeAdmin,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("perfil administrador: %w", err)
	}
	if err := profiles.ReplaceRoles(ctx, tenantID, profile.ID, roleIDs); err != nil {
		return nil, fmt.Errorf("roles del perfil administrador: %w", err)
	}
	return profile, nil
}
