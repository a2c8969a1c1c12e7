package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en el caso de uso).
type CreateUserRequest struct {
	ProfileID string `json:"profile_id" validate:"required,uuid"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	TaxID     string `json:"tax_id"`
	Phone     string `json:"phone"`
}

// UpdateUserRequest entrada para actualizar un usuario (campos opcionales).
type UpdateUserRequest struct {
	ProfileID *string `json:"profile_id"`
	Name      *string `json:"name"`
	TaxID     *string `json:"tax_id"`
	Phone     *string `json:"phone"`
	Status    *string `json:"status"`
}

// UserListQuery filtros del listado de usuarios.
type UserListQuery struct {
	ListQuery
	ProfileID string `query:"profile_id"`
	Status    string `query:"status"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	ProfileID string    `json:"profile_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Phone     string    `json:"phone"`
	Active    bool      `json:"active"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
