package dto

import "time"

// CreateTenantRequest entrada para crear un tenant.
type CreateTenantRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	TaxID   string `json:"tax_id" validate:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Type    string `json:"type" validate:"required,oneof=ADMIN SHIPPER CARRIER CLIENT"`
}

// UpdateTenantRequest entrada para actualizar un tenant (campos opcionales).
type UpdateTenantRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Type    *string `json:"type"`
}

// TenantListQuery filtros del listado de tenants.
type TenantListQuery struct {
	ListQuery
	Type string `query:"type"`
}

// TenantResponse salida de un tenant; el RUT va en forma de despliegue.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
