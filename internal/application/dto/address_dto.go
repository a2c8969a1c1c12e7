package dto

import "time"

// CreateAddressRequest entrada para crear una dirección.
type CreateAddressRequest struct {
	ComunaID  int      `json:"comuna_id" validate:"required"`
	Text      string   `json:"text" validate:"required"`
	Reference string   `json:"reference"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Origin    string   `json:"origin" validate:"omitempty,oneof=MANUAL GEOCODIFICADA REUTILIZADA"`
}

// UpdateAddressRequest entrada para actualizar una dirección.
type UpdateAddressRequest struct {
	ComunaID  *int     `json:"comuna_id"`
	Text      *string  `json:"text"`
	Reference *string  `json:"reference"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// AddressListQuery filtros del listado de direcciones.
type AddressListQuery struct {
	ListQuery
	ComunaID int    `query:"comuna_id"`
	Origin   string `query:"origin"`
}

// ComunaResponse salida del catálogo de comunas.
type ComunaResponse struct {
	ID         int    `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	RegionCode string `json:"region_code"`
	RegionName string `json:"region_name"`
}

// ComunaListQuery filtros del catálogo de comunas.
type ComunaListQuery struct {
	ListQuery
	RegionCode string `query:"region"`
}

// AddressResponse salida de una dirección.
type AddressResponse struct {
	ID         string          `json:"id"`
	ComunaID   int             `json:"comuna_id"`
	Comuna     *ComunaResponse `json:"comuna,omitempty"`
	Text       string          `json:"text"`
	Reference  string          `json:"reference,omitempty"`
	Latitude   *float64        `json:"latitude,omitempty"`
	Longitude  *float64        `json:"longitude,omitempty"`
	UsageCount int             `json:"usage_count"`
	Origin     string          `json:"origin"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateCatalogItemRequest entrada para una entrada de catálogo.
type CreateCatalogItemRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// CatalogItemResponse salida de una entrada de catálogo.
type CatalogItemResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
