package dto

import "time"

// CreateProfileRequest entrada para crear un perfil.
type CreateProfileRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"omitempty,oneof=BASICO AVANZADO ADMINISTRADOR"`
}

// UpdateProfileRequest entrada para actualizar un perfil.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
}

// ProfileListQuery filtros del listado de perfiles.
type ProfileListQuery struct {
	ListQuery
	Type string `query:"type"`
}

// SetProfileRolesRequest reemplaza los roles de un perfil.
type SetProfileRolesRequest struct {
	RoleIDs []string `json:"role_ids"`
}

// ProfileResponse salida de un perfil.
type ProfileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRoleRequest entrada para crear un rol (concesión módulo + acción).
type CreateRoleRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Module      string `json:"module" validate:"required"`
	Action      string `json:"action" validate:"required,oneof=VER CREAR EDITAR ELIMINAR ACTIVAR"`
	Order       int    `json:"order"`
	Visible     *bool  `json:"visible"`
}

// UpdateRoleRequest entrada para actualizar un rol.
type UpdateRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	Visible     *bool   `json:"visible"`
}

// RoleListQuery filtros del listado de roles.
type RoleListQuery struct {
	ListQuery
	Module string `query:"module"`
	Action string `query:"action"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Module      string    `json:"module"`
	Action      string    `json:"action"`
	Order       int       `json:"order"`
	Visible     bool      `json:"visible"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PermissionResponse concesión resuelta (módulo, acción).
type PermissionResponse struct {
	Module string `json:"module"`
	Action string `json:"action"`
}

// MeResponse identidad del actor autenticado con sus permisos resueltos.
type MeResponse struct {
	User        UserResponse         `json:"user"`
	Tenant      TenantResponse       `json:"tenant"`
	Permissions []PermissionResponse `json:"permissions"`
}
