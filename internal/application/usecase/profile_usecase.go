package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// ProfileUseCase perfiles del tenant y sus vínculos con roles.
type ProfileUseCase struct {
	profiles repository.ProfileRepository
	tx       ProfileTxRunner
	pages    Pagination
	clock    clock
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(profiles repository.ProfileRepository, tx ProfileTxRunner, pages Pagination) *ProfileUseCase {
	return &ProfileUseCase{profiles: profiles, tx: tx, pages: pages}
}

func validProfileType(t string) bool {
	switch t {
	case entity.ProfileTypeBasic, entity.ProfileTypeAdvanced, entity.ProfileTypeAdmin:
		return true
	}
	return false
}

// Create crea un perfil sin roles.
func (uc *ProfileUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name es obligatorio")
	}
	typ := strings.ToUpper(strings.TrimSpace(in.Type))
	if typ == "" {
		typ = entity.ProfileTypeBasic
	}
	if !validProfileType(typ) {
		return nil, invalid("type %q no válido", in.Type)
	}
	now := uc.clock.now()
	p := &entity.Profile{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Type:        typ,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.profiles.Create(ctx, p); err != nil {
		return nil, fail(ctx, "crear perfil", err)
	}
	resp := toProfileResponse(p)
	return &resp, nil
}

func (uc *ProfileUseCase) load(ctx context.Context, op, tenantID, id string) (*entity.Profile, error) {
	p, err := uc.profiles.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if p == nil {
		return nil, fail(ctx, op, notFound("perfil"))
	}
	return p, nil
}

// Get obtiene un perfil del tenant.
func (uc *ProfileUseCase) Get(ctx context.Context, tenantID, id string) (*dto.ProfileResponse, error) {
	p, err := uc.load(ctx, "obtener perfil", tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(p)
	return &resp, nil
}

// List lista perfiles del tenant.
func (uc *ProfileUseCase) List(ctx context.Context, tenantID string, q dto.ProfileListQuery) (*dto.ListResponse[dto.ProfileResponse], error) {
	params, err := uc.pages.Params(q.ListQuery)
	if err != nil {
		return nil, err
	}
	page, err := uc.profiles.List(ctx, tenantID, repository.ProfileFilter{
		ListParams: params,
		Active:     q.Activo,
		Type:       strings.ToUpper(q.Type),
	})
	if err != nil {
		return nil, fail(ctx, "listar perfiles", err)
	}
	return listResponse(page, params, toProfileResponse), nil
}

// Update actualiza nombre, descripción o tipo.
func (uc *ProfileUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	const op = "actualizar perfil"
	p, err := uc.load(ctx, op, tenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name no puede quedar vacío")
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Type != nil {
		typ := strings.ToUpper(strings.TrimSpace(*in.Type))
		if !validProfileType(typ) {
			return nil, invalid("type %q no válido", *in.Type)
		}
		p.Type = typ
	}
	p.UpdatedAt = uc.clock.now()
	if err := uc.profiles.Update(ctx, p); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toProfileResponse(p)
	return &resp, nil
}

func (uc *ProfileUseCase) setActive(ctx context.Context, op, tenantID, id string, active bool) (*dto.ProfileResponse, error) {
	p, err := uc.load(ctx, op, tenantID, id)
	if err != nil {
		return nil, err
	}
	p.Active = active
	p.UpdatedAt = uc.clock.now()
	if err := uc.profiles.Update(ctx, p); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toProfileResponse(p)
	return &resp, nil
}

// Deactivate desactiva el perfil: sus usuarios quedan sin permisos.
func (uc *ProfileUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	_, err := uc.setActive(ctx, "desactivar perfil", tenantID, id, false)
	return err
}

// Reactivate vuelve a activar el perfil.
func (uc *ProfileUseCase) Reactivate(ctx context.Context, tenantID, id string) (*dto.ProfileResponse, error) {
	return uc.setActive(ctx, "reactivar perfil", tenantID, id, true)
}

// SetRoles reemplaza los roles del perfil en una transacción. Todo rol debe pertenecer
// al tenant; si alguno no, nada cambia (ErrInvalidReference).
func (uc *ProfileUseCase) SetRoles(ctx context.Context, tenantID, profileID string, in dto.SetProfileRolesRequest) ([]dto.RoleResponse, error) {
	const op = "asignar roles"
	ids := uniqueStrings(in.RoleIDs)
	err := uc.tx.RunProfile(ctx, func(profiles repository.ProfileRepository, roles repository.RoleRepository) error {
		p, err := profiles.GetByID(ctx, tenantID, profileID)
		if err != nil {
			return err
		}
		if p == nil {
			return notFound("perfil")
		}
		n, err := roles.CountByIDs(ctx, tenantID, ids)
		if err != nil {
			return err
		}
		if n != len(ids) {
			return invalidRef("role_ids")
		}
		return profiles.ReplaceRoles(ctx, tenantID, profileID, ids)
	})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return uc.Roles(ctx, tenantID, profileID)
}

// Roles lista los roles vinculados al perfil.
func (uc *ProfileUseCase) Roles(ctx context.Context, tenantID, profileID string) ([]dto.RoleResponse, error) {
	const op = "roles del perfil"
	if _, err := uc.load(ctx, op, tenantID, profileID); err != nil {
		return nil, err
	}
	roles, err := uc.profiles.ListRoles(ctx, tenantID, profileID)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return out, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
