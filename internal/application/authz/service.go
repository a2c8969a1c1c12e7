package authz

import (
	"context"
	"fmt"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/access"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// Service resuelve permisos de perfiles y los hace cumplir en el borde de la API.
// No guarda estado entre peticiones: cada llamada consulta la base.
type Service struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	tenants  repository.TenantRepository
}

// NewService construye el servicio de autorización.
func NewService(profiles repository.ProfileRepository, users repository.UserRepository, tenants repository.TenantRepository) *Service {
	return &Service{profiles: profiles, users: users, tenants: tenants}
}

// Authenticate verifica que la cuenta detrás del token siga habilitada: tenant activo y
// usuario activo en estado ACTIVO. Devuelve la identidad con el perfil vigente del usuario,
// que puede diferir del firmado en el token. Una cuenta deshabilitada es ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, id Identity) (Identity, error) {
	if id.TenantID == "" || id.UserID == "" {
		return Identity{}, fmt.Errorf("identidad incompleta: %w", domain.ErrUnauthorized)
	}
	tenant, err := s.tenants.GetByID(ctx, id.TenantID)
	if err != nil {
		return Identity{}, fmt.Errorf("autenticar: obtener tenant: %w", err)
	}
	if tenant == nil || !tenant.Active {
		return Identity{}, fmt.Errorf("tenant inactivo: %w", domain.ErrUnauthorized)
	}
	user, err := s.users.GetByID(ctx, id.TenantID, id.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("autenticar: obtener usuario: %w", err)
	}
	if user == nil || !user.Active || user.Status != entity.UserStatusActive {
		return Identity{}, fmt.Errorf("usuario deshabilitado: %w", domain.ErrUnauthorized)
	}
	id.ProfileID = user.ProfileID
	return id, nil
}

// Resolve devuelve el conjunto (módulo, acción) concedido por los roles activos vinculados
// al perfil. Un perfil inexistente, inactivo o sin roles resuelve a un conjunto vacío.
func (s *Service) Resolve(ctx context.Context, tenantID, profileID string) (access.PermissionSet, error) {
	if tenantID == "" {
		return access.PermissionSet{}, fmt.Errorf("resolver permisos: %w", domain.ErrUnauthorized)
	}
	if profileID == "" {
		return access.NewPermissionSet(), nil
	}
	profile, err := s.profiles.GetByID(ctx, tenantID, profileID)
	if err != nil {
		return access.PermissionSet{}, fmt.Errorf("resolver permisos: obtener perfil: %w", err)
	}
	if profile == nil || !profile.Active {
		return access.NewPermissionSet(), nil
	}
	grants, err := s.profiles.Grants(ctx, tenantID, profileID)
	if err != nil {
		return access.PermissionSet{}, fmt.Errorf("resolver permisos: %w", err)
	}
	return access.NewPermissionSet(grants...), nil
}

// Require hace cumplir el permiso en la API: devuelve nil si el actor lo tiene,
// un error que envuelve domain.ErrForbidden si no, ErrUnauthorized si la cuenta ya no
// está habilitada, o el error de resolución.
// A diferencia de access.HasModulePermission, nunca degrada a un "no" silencioso.
func (s *Service) Require(ctx context.Context, id Identity, module entity.Module, action entity.Action) error {
	id, err := s.Authenticate(ctx, id)
	if err != nil {
		return err
	}
	set, err := s.Resolve(ctx, id.TenantID, id.ProfileID)
	if err != nil {
		return err
	}
	if !set.Has(module, action) {
		return fmt.Errorf("%s sobre %s: %w", action, module, domain.ErrForbidden)
	}
	return nil
}
