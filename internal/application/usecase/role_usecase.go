package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// RoleUseCase roles (concesiones módulo + acción) del tenant.
type RoleUseCase struct {
	roles repository.RoleRepository
	pages Pagination
	clock clock
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(roles repository.RoleRepository, pages Pagination) *RoleUseCase {
	return &RoleUseCase{roles: roles, pages: pages}
}

// Create crea un rol. El código es único en el tenant y el par módulo/acción debe
// pertenecer al vocabulario.
func (uc *RoleUseCase) Create(ctx context.Context, tenantID string, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	const op = "crear rol"
	code := strings.TrimSpace(in.Code)
	if !entity.ValidCode(code) {
		return nil, invalid("code %q debe contener solo letras, números, guion o guion bajo", in.Code)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name es obligatorio")
	}
	module := entity.Module(strings.ToUpper(strings.TrimSpace(in.Module)))
	if !module.Valid() {
		return nil, invalid("module %q no existe", in.Module)
	}
	action := entity.Action(strings.ToUpper(strings.TrimSpace(in.Action)))
	if !action.Valid() {
		return nil, invalid("action %q no existe", in.Action)
	}
	if existing, err := uc.roles.GetByCode(ctx, tenantID, code); err != nil {
		return nil, fail(ctx, op, err)
	} else if existing != nil {
		return nil, fail(ctx, op, fmt.Errorf("código %s ya existe: %w", code, domain.ErrConflict))
	}
	visible := true
	if in.Visible != nil {
		visible = *in.Visible
	}
	now := uc.clock.now()
	role := &entity.Role{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Module:      module,
		Action:      action,
		Order:       in.Order,
		Visible:     visible,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.roles.Create(ctx, role); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (uc *RoleUseCase) load(ctx context.Context, op, tenantID, id string) (*entity.Role, error) {
	r, err := uc.roles.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if r == nil {
		return nil, fail(ctx, op, notFound("rol"))
	}
	return r, nil
}

// Get obtiene un rol del tenant.
func (uc *RoleUseCase) Get(ctx context.Context, tenantID, id string) (*dto.RoleResponse, error) {
	r, err := uc.load(ctx, "obtener rol", tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(r)
	return &resp, nil
}

// List lista roles del tenant en orden de UI.
func (uc *RoleUseCase) List(ctx context.Context, tenantID string, q dto.RoleListQuery) (*dto.ListResponse[dto.RoleResponse], error) {
	params, err := uc.pages.Params(q.ListQuery)
	if err != nil {
		return nil, err
	}
	page, err := uc.roles.List(ctx, tenantID, repository.RoleFilter{
		ListParams: params,
		Active:     q.Activo,
		Module:     entity.Module(strings.ToUpper(q.Module)),
		Action:     entity.Action(strings.ToUpper(q.Action)),
	})
	if err != nil {
		return nil, fail(ctx, "listar roles", err)
	}
	return listResponse(page, params, toRoleResponse), nil
}

// Update actualiza metadatos del rol. Código, módulo y acción no cambian: para otra
// concesión se crea otro rol.
func (uc *RoleUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	const op = "actualizar rol"
	r, err := uc.load(ctx, op, tenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name no puede quedar vacío")
		}
		r.Name = name
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	if in.Order != nil {
		r.Order = *in.Order
	}
	if in.Visible != nil {
		r.Visible = *in.Visible
	}
	r.UpdatedAt = uc.clock.now()
	if err := uc.roles.Update(ctx, r); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toRoleResponse(r)
	return &resp, nil
}

func (uc *RoleUseCase) setActive(ctx context.Context, op, tenantID, id string, active bool) (*dto.RoleResponse, error) {
	r, err := uc.load(ctx, op, tenantID, id)
	if err != nil {
		return nil, err
	}
	r.Active = active
	r.UpdatedAt = uc.clock.now()
	if err := uc.roles.Update(ctx, r); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toRoleResponse(r)
	return &resp, nil
}

// Deactivate desactiva el rol: deja de conceder permisos.
func (uc *RoleUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	_, err := uc.setActive(ctx, "desactivar rol", tenantID, id, false)
	return err
}

// Reactivate vuelve a activar el rol.
func (uc *RoleUseCase) Reactivate(ctx context.Context, tenantID, id string) (*dto.RoleResponse, error) {
	return uc.setActive(ctx, "reactivar rol", tenantID, id, true)
}
