package dto

import "time"

// PersonInput nombre de una persona natural.
type PersonInput struct {
	Name string `json:"name"`
}

// OrganizationInput razón social de una organización.
type OrganizationInput struct {
	LegalName string `json:"legal_name"`
}

// PartyNameInput exige exactamente uno de person u organization.
type PartyNameInput struct {
	Person       *PersonInput       `json:"person,omitempty"`
	Organization *OrganizationInput `json:"organization,omitempty"`
}

// CreateEntityRequest entrada para crear (o reutilizar por RUT) una entidad.
type CreateEntityRequest struct {
	PartyNameInput
	TaxID     string `json:"tax_id" validate:"required"`
	Type      string `json:"type"`
	Contact   string `json:"contact"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	AddressID string `json:"address_id"`
}

// EntityListQuery filtros del listado de entidades.
type EntityListQuery struct {
	ListQuery
	Type string `query:"type"`
}

// CreatePartyRequest entrada para crear un cliente, transportista o embarcador.
type CreatePartyRequest struct {
	PartyNameInput
	TaxID     string `json:"tax_id" validate:"required"`
	Contact   string `json:"contact"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	AddressID string `json:"address_id"`
	Code      string `json:"code"`
	Notes     string `json:"notes"`
}

// UpdatePartyRequest entrada para actualizar un cliente, transportista o embarcador.
// El RUT no se modifica.
type UpdatePartyRequest struct {
	PartyNameInput
	Contact   *string `json:"contact"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	AddressID *string `json:"address_id"`
	Code      *string `json:"code"`
	Notes     *string `json:"notes"`
}

// EntityResponse salida de una entidad; Name es el nombre de despliegue de la variante.
type EntityResponse struct {
	ID           string             `json:"id"`
	TaxID        string             `json:"tax_id"`
	Name         string             `json:"name"`
	Person       *PersonInput       `json:"person,omitempty"`
	Organization *OrganizationInput `json:"organization,omitempty"`
	Type         string             `json:"type"`
	Contact      string             `json:"contact"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	AddressID    string             `json:"address_id,omitempty"`
	Active       bool               `json:"active"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// PartyResponse salida de un cliente, transportista o embarcador.
type PartyResponse struct {
	ID        string         `json:"id"`
	EntityID  string         `json:"entity_id"`
	Code      string         `json:"code,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Active    bool           `json:"active"`
	Entity    EntityResponse `json:"entity"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
