package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-api/internal/application/authz"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login e identidad del actor.
type AuthUseCase struct {
	users   repository.UserRepository
	tenants repository.TenantRepository
	authz   *authz.Service
	jwtCfg  JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, tenants repository.TenantRepository, authzSvc *authz.Service, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{users: users, tenants: tenants, authz: authzSvc, jwtCfg: jwtCfg}
}

// Login verifica email/password y emite un JWT con user_id, tenant_id y profile_id.
// Credenciales incorrectas son ErrUnauthorized; usuario o tenant inactivo, ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	log := zerolog.Ctx(ctx)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("credenciales inválidas: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		log.Info().Str("user_id", user.ID).Msg("login rechazado: password incorrecto")
		return nil, fmt.Errorf("credenciales inválidas: %w", domain.ErrUnauthorized)
	}
	if !user.Active || user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("usuario %s: %w", strings.ToLower(user.Status), domain.ErrForbidden)
	}
	tenant, err := uc.tenants.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if tenant == nil || !tenant.Active {
		return nil, fmt.Errorf("tenant inactivo: %w", domain.ErrForbidden)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, user.ProfileID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("login: emitir token: %w", err)
	}
	log.Info().Str("user_id", user.ID).Str("tenant_id", user.TenantID).Msg("login")
	return &dto.LoginResponse{Token: token, User: usecase.ToUserResponse(user)}, nil
}

// Me devuelve el usuario autenticado, su tenant y sus permisos resueltos.
func (uc *AuthUseCase) Me(ctx context.Context, id authz.Identity) (*dto.MeResponse, error) {
	id, err := uc.authz.Authenticate(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, id.TenantID, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("usuario: %w", domain.ErrNotFound)
	}
	tenant, err := uc.tenants.GetByID(ctx, id.TenantID)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	if tenant == nil {
		return nil, fmt.Errorf("tenant: %w", domain.ErrNotFound)
	}
	perms, err := uc.permissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		User:        usecase.ToUserResponse(user),
		Tenant:      usecase.ToTenantResponse(tenant),
		Permissions: perms,
	}, nil
}

// Permissions lista los permisos (módulo, acción) del perfil del actor.
func (uc *AuthUseCase) Permissions(ctx context.Context, id authz.Identity) ([]dto.PermissionResponse, error) {
	id, err := uc.authz.Authenticate(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.permissions(ctx, id)
}

func (uc *AuthUseCase) permissions(ctx context.Context, id authz.Identity) ([]dto.PermissionResponse, error) {
	set, err := uc.authz.Resolve(ctx, id.TenantID, id.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("permisos: %w", err)
	}
	return usecase.ToPermissionResponses(set), nil
}
