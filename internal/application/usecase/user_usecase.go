package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

const minPasswordLen = 8

// UserUseCase aplica reglas de negocio para usuarios del tenant.
type UserUseCase struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	pages    Pagination
	clock    clock
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(users repository.UserRepository, profiles repository.ProfileRepository, pages Pagination) *UserUseCase {
	return &UserUseCase{users: users, profiles: profiles, pages: pages}
}

func normalizeEmail(s string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(s))
	if email == "" {
		return "", invalid("email es obligatorio")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", invalid("email %q no válido", s)
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", invalid("password debe tener al menos %d caracteres", minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// optionalRUT valida y normaliza un RUT opcional.
func optionalRUT(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return normalizeRUT(field, value)
}

// checkProfile exige que el perfil exista en el tenant.
func (uc *UserUseCase) checkProfile(ctx context.Context, tenantID, profileID string) error {
	p, err := uc.profiles.GetByID(ctx, tenantID, profileID)
	if err != nil {
		return err
	}
	if p == nil {
		return invalidRef("profile_id")
	}
	return nil
}

// Create crea un usuario en el tenant del actor. El email es único en todo el sistema.
func (uc *UserUseCase) Create(ctx context.Context, tenantID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	const op = "crear usuario"
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name es obligatorio")
	}
	taxID, err := optionalRUT("tax_id", in.TaxID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkProfile(ctx, tenantID, in.ProfileID); err != nil {
		return nil, fail(ctx, op, err)
	}
	if existing, err := uc.users.GetByEmail(ctx, email); err != nil {
		return nil, fail(ctx, op, err)
	} else if existing != nil {
		return nil, fail(ctx, op, fmt.Errorf("email %s ya registrado: %w", email, domain.ErrConflict))
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	now := uc.clock.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		ProfileID:    in.ProfileID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		TaxID:        taxID,
		Phone:        strings.TrimSpace(in.Phone),
		Active:       true,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (uc *UserUseCase) load(ctx context.Context, op, tenantID, id string) (*entity.User, error) {
	u, err := uc.users.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if u == nil {
		return nil, fail(ctx, op, notFound("usuario"))
	}
	return u, nil
}

// Get obtiene un usuario del tenant.
func (uc *UserUseCase) Get(ctx context.Context, tenantID, id string) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, "obtener usuario", tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// List lista usuarios del tenant con búsqueda por nombre, email o RUT.
func (uc *UserUseCase) List(ctx context.Context, tenantID string, q dto.UserListQuery) (*dto.ListResponse[dto.UserResponse], error) {
	params, err := uc.pages.Params(q.ListQuery)
	if err != nil {
		return nil, err
	}
	page, err := uc.users.List(ctx, tenantID, repository.UserFilter{
		ListParams: params,
		Active:     q.Activo,
		ProfileID:  q.ProfileID,
		Status:     strings.ToUpper(q.Status),
	})
	if err != nil {
		return nil, fail(ctx, "listar usuarios", err)
	}
	return listResponse(page, params, ToUserResponse), nil
}

func validUserStatus(s string) bool {
	switch s {
	case entity.UserStatusActive, entity.UserStatusInactive, entity.UserStatusSuspended:
		return true
	}
	return false
}

// Update actualiza nombre, teléfono, RUT, estado o reasigna el perfil (dentro del tenant).
func (uc *UserUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	const op = "actualizar usuario"
	u, err := uc.load(ctx, op, tenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name no puede quedar vacío")
		}
		u.Name = name
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.TaxID != nil {
		taxID, err := optionalRUT("tax_id", *in.TaxID)
		if err != nil {
			return nil, err
		}
		u.TaxID = taxID
	}
	if in.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*in.Status))
		if !validUserStatus(status) {
			return nil, invalid("status %q no válido", *in.Status)
		}
		if status == entity.UserStatusActive && !u.Active {
			return nil, fmt.Errorf("el usuario está desactivado, reactívelo con /activate: %w", domain.ErrConflict)
		}
		u.Status = status
		u.Active = status == entity.UserStatusActive
	}
	if in.ProfileID != nil && *in.ProfileID != u.ProfileID {
		if err := uc.checkProfile(ctx, tenantID, *in.ProfileID); err != nil {
			return nil, fail(ctx, op, err)
		}
		u.ProfileID = *in.ProfileID
	}
	u.UpdatedAt = uc.clock.now()
	if err := uc.users.Update(ctx, u); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

func (uc *UserUseCase) setActive(ctx context.Context, op, tenantID, id string, active bool) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, op, tenantID, id)
	if err != nil {
		return nil, err
	}
	u.Active = active
	u.Status = entity.UserStatusInactive
	if active {
		u.Status = entity.UserStatusActive
	}
	u.UpdatedAt = uc.clock.now()
	if err := uc.users.Update(ctx, u); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// Deactivate baja lógica del usuario.
func (uc *UserUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	_, err := uc.setActive(ctx, "desactivar usuario", tenantID, id, false)
	return err
}

// Reactivate vuelve a activar el usuario.
func (uc *UserUseCase) Reactivate(ctx context.Context, tenantID, id string) (*dto.UserResponse, error) {
	return uc.setActive(ctx, "reactivar usuario", tenantID, id, true)
}
