package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// TenantUseCase administración de tenants. Crear y listar está reservado a usuarios
// de un tenant de tipo ADMIN; el resto de tenants solo ve y edita el propio.
type TenantUseCase struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	tx      TenantTxRunner
	pages   Pagination
	clock   clock
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(tenants repository.TenantRepository, users repository.UserRepository, tx TenantTxRunner, pages Pagination) *TenantUseCase {
	return &TenantUseCase{tenants: tenants, users: users, tx: tx, pages: pages}
}

// callerIsAdmin indica si el tenant del actor es de tipo ADMIN.
func (uc *TenantUseCase) callerIsAdmin(ctx context.Context, callerTenantID string) (bool, error) {
	caller, err := uc.tenants.GetByID(ctx, callerTenantID)
	if err != nil {
		return false, err
	}
	if caller == nil || !caller.Active {
		return false, fmt.Errorf("tenant del actor: %w", domain.ErrUnauthorized)
	}
	return caller.Type == entity.TenantTypeAdmin, nil
}

func (uc *TenantUseCase) requireAdmin(ctx context.Context, op, callerTenantID string) error {
	ok, err := uc.callerIsAdmin(ctx, callerTenantID)
	if err != nil {
		return fail(ctx, op, err)
	}
	if !ok {
		return fmt.Errorf("%s: solo un tenant administrador: %w", op, domain.ErrForbidden)
	}
	return nil
}

// load obtiene el tenant id visible para el actor: el propio o cualquiera si es ADMIN.
// Un tenant ajeno se informa como inexistente.
func (uc *TenantUseCase) load(ctx context.Context, op, callerTenantID, id string) (*entity.Tenant, error) {
	if id != callerTenantID {
		ok, err := uc.callerIsAdmin(ctx, callerTenantID)
		if err != nil {
			return nil, fail(ctx, op, err)
		}
		if !ok {
			return nil, fail(ctx, op, notFound("tenant"))
		}
	}
	t, err := uc.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if t == nil {
		return nil, fail(ctx, op, notFound("tenant"))
	}
	return t, nil
}

// Create da de alta un tenant con su perfil administrador y un rol por cada par
// (módulo, acción), todo en una transacción.
func (uc *TenantUseCase) Create(ctx context.Context, callerTenantID string, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	const op = "crear tenant"
	if err := uc.requireAdmin(ctx, op, callerTenantID); err != nil {
		return nil, err
	}
	t, err := uc.newTenant(in)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if existing, err := uc.tenants.GetByTaxID(ctx, t.TaxID); err != nil {
		return nil, fail(ctx, op, err)
	} else if existing != nil {
		return nil, fail(ctx, op, fmt.Errorf("RUT %s ya registrado: %w", t.TaxID, domain.ErrConflict))
	}

	err = uc.tx.RunTenant(ctx, func(tenants repository.TenantRepository, profiles repository.ProfileRepository, roles repository.RoleRepository, _ repository.UserRepository) error {
		if err := tenants.Create(ctx, t); err != nil {
			return err
		}
		_, err := provisionAdminProfile(ctx, t.ID, profiles, roles, t.CreatedAt)
		return err
	})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	zerolog.Ctx(ctx).Info().Str("tenant_id", t.ID).Str("tax_id", t.TaxID).Msg("tenant creado")
	resp := ToTenantResponse(t)
	return &resp, nil
}

func (uc *TenantUseCase) newTenant(in dto.CreateTenantRequest) (*entity.Tenant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name es obligatorio")
	}
	taxID, err := normalizeRUT("tax_id", in.TaxID)
	if err != nil {
		return nil, err
	}
	typ := entity.TenantType(strings.ToUpper(strings.TrimSpace(in.Type)))
	if !typ.Valid() {
		return nil, invalid("type %q no válido", in.Type)
	}
	now := uc.clock.now()
	return &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		TaxID:     taxID,
		Contact:   strings.TrimSpace(in.Contact),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Type:      typ,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Get obtiene un tenant visible para el actor.
func (uc *TenantUseCase) Get(ctx context.Context, callerTenantID, id string) (*dto.TenantResponse, error) {
	t, err := uc.load(ctx, "obtener tenant", callerTenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// List lista todos los tenants (solo ADMIN).
func (uc *TenantUseCase) List(ctx context.Context, callerTenantID string, q dto.TenantListQuery) (*dto.ListResponse[dto.TenantResponse], error) {
	const op = "listar tenants"
	if err := uc.requireAdmin(ctx, op, callerTenantID); err != nil {
		return nil, err
	}
	params, err := uc.pages.Params(q.ListQuery)
	if err != nil {
		return nil, err
	}
	typ := entity.TenantType(strings.ToUpper(q.Type))
	if typ != "" && !typ.Valid() {
		return nil, invalid("type %q no válido", q.Type)
	}
	page, err := uc.tenants.List(ctx, repository.TenantFilter{ListParams: params, Active: q.Activo, Type: typ})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	return listResponse(page, params, ToTenantResponse), nil
}

// Update actualiza datos de contacto, nombre o tipo. El RUT no cambia.
func (uc *TenantUseCase) Update(ctx context.Context, callerTenantID, id string, in dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	const op = "actualizar tenant"
	t, err := uc.load(ctx, op, callerTenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name no puede quedar vacío")
		}
		t.Name = name
	}
	if in.Type != nil {
		typ := entity.TenantType(strings.ToUpper(strings.TrimSpace(*in.Type)))
		if !typ.Valid() {
			return nil, invalid("type %q no válido", *in.Type)
		}
		if typ != t.Type {
			// el tipo decide la visibilidad entre tenants: solo lo cambia un ADMIN
			if err := uc.requireAdmin(ctx, op, callerTenantID); err != nil {
				return nil, err
			}
		}
		t.Type = typ
	}
	if in.Contact != nil {
		t.Contact = strings.TrimSpace(*in.Contact)
	}
	if in.Email != nil {
		t.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		t.Phone = strings.TrimSpace(*in.Phone)
	}
	t.UpdatedAt = uc.clock.now()
	if err := uc.tenants.Update(ctx, t); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// Deactivate desactiva el tenant. Falla con ErrConflict mientras tenga usuarios activos.
// El conteo y la baja corren en una transacción con la fila del tenant bloqueada.
func (uc *TenantUseCase) Deactivate(ctx context.Context, callerTenantID, id string) error {
	const op = "desactivar tenant"
	if _, err := uc.load(ctx, op, callerTenantID, id); err != nil {
		return err
	}
	err := uc.tx.RunTenant(ctx, func(tenants repository.TenantRepository, _ repository.ProfileRepository, _ repository.RoleRepository, users repository.UserRepository) error {
		t, err := tenants.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("tenant %s: %w", id, domain.ErrNotFound)
		}
		n, err := users.CountActive(ctx, t.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("el tenant tiene %d usuarios activos: %w", n, domain.ErrConflict)
		}
		t.Active = false
		t.UpdatedAt = uc.clock.now()
		return tenants.Update(ctx, t)
	})
	if err != nil {
		return fail(ctx, op, err)
	}
	return nil
}

// Reactivate vuelve a activar el tenant (solo ADMIN: un tenant inactivo no puede operar).
func (uc *TenantUseCase) Reactivate(ctx context.Context, callerTenantID, id string) (*dto.TenantResponse, error) {
	const op = "reactivar tenant"
	if err := uc.requireAdmin(ctx, op, callerTenantID); err != nil {
		return nil, err
	}
	t, err := uc.load(ctx, op, callerTenantID, id)
	if err != nil {
		return nil, err
	}
	t.Active = true
	t.UpdatedAt = uc.clock.now()
	if err := uc.tenants.Update(ctx, t); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// BootstrapInput datos del tenant administrador inicial.
type BootstrapInput struct {
	TenantName    string
	TenantRUT     string
	AdminEmail    string
	AdminPassword string
}

// Bootstrap crea el tenant ADMIN inicial con su primer usuario administrador si aún no
// existe un tenant con ese RUT. Devuelve false cuando no había nada que hacer.
func (uc *TenantUseCase) Bootstrap(ctx context.Context, in BootstrapInput) (bool, error) {
	const op = "bootstrap"
	t, err := uc.newTenant(dto.CreateTenantRequest{Name: in.TenantName, TaxID: in.TenantRUT, Type: string(entity.TenantTypeAdmin)})
	if err != nil {
		return false, fail(ctx, op, err)
	}
	existing, err := uc.tenants.GetByTaxID(ctx, t.TaxID)
	if err != nil {
		return false, fail(ctx, op, err)
	}
	if existing != nil {
		return false, nil
	}
	email, err := normalizeEmail(in.AdminEmail)
	if err != nil {
		return false, fail(ctx, op, err)
	}
	hash, err := hashPassword(in.AdminPassword)
	if err != nil {
		return false, fail(ctx, op, err)
	}

	err = uc.tx.RunTenant(ctx, func(tenants repository.TenantRepository, profiles repository.ProfileRepository, roles repository.RoleRepository, users repository.UserRepository) error {
		if err := tenants.Create(ctx, t); err != nil {
			return err
		}
		profile, err := provisionAdminProfile(ctx, t.ID, profiles, roles, t.CreatedAt)
		if err != nil {
			return err
		}
		return users.Create(ctx, &entity.User{
			ID:           uuid.New().String(),
			TenantID:     t.ID,
			ProfileID:    profile.ID,
			Email:        email,
			PasswordHash: hash,
			Name:         "Administrador",
			Active:       true,
			Status:       entity.UserStatusActive,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.CreatedAt,
		})
	})
	if err != nil {
		return false, fail(ctx, op, err)
	}
	zerolog.Ctx(ctx).Info().Str("tenant_id", t.ID).Str("email", email).Msg("tenant administrador inicial creado")
	return true, nil
}
