package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest entrada para crear una orden. Code es opcional: si viene vacío
// se genera ORD-YYYYMMDD-NNN.
type CreateOrderRequest struct {
	Code                 string          `json:"code"`
	ClientID             string          `json:"client_id" validate:"required,uuid"`
	SenderID             string          `json:"sender_id" validate:"required,uuid"`
	ReceiverID           string          `json:"receiver_id" validate:"required,uuid"`
	OriginAddressID      string          `json:"origin_address_id" validate:"required,uuid"`
	DestinationAddressID string          `json:"destination_address_id" validate:"required,uuid"`
	CargoTypeID          string          `json:"cargo_type_id" validate:"required,uuid"`
	ServiceTypeID        string          `json:"service_type_id" validate:"required,uuid"`
	EquipmentID          string          `json:"equipment_id"`
	Weight               decimal.Decimal `json:"weight"`
	Volume               decimal.Decimal `json:"volume"`
	Length               decimal.Decimal `json:"length"`
	Width                decimal.Decimal `json:"width"`
	Height               decimal.Decimal `json:"height"`
	Packages             int             `json:"packages"`
	Notes                string          `json:"notes"`
	ScheduledAt          *time.Time      `json:"scheduled_at"`
}

// UpdateOrderRequest actualiza medidas y observaciones (solo en estado PENDIENTE).
type UpdateOrderRequest struct {
	Weight      *decimal.Decimal `json:"weight"`
	Volume      *decimal.Decimal `json:"volume"`
	Length      *decimal.Decimal `json:"length"`
	Width       *decimal.Decimal `json:"width"`
	Height      *decimal.Decimal `json:"height"`
	Packages    *int             `json:"packages"`
	Notes       *string          `json:"notes"`
	ScheduledAt *time.Time       `json:"scheduled_at"`
}

// ChangeOrderStatusRequest cambio de estado de una orden.
type ChangeOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderListQuery filtros del listado de órdenes. FromDate/ToDate marcan que el
// límite llegó como fecha sin hora: To incluye entonces el día completo.
type OrderListQuery struct {
	ListQuery
	Status   string     `query:"status"`
	ClientID string     `query:"client_id"`
	From     *time.Time `query:"from"`
	To       *time.Time `query:"to"`
	FromDate bool       `query:"-"`
	ToDate   bool       `query:"-"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID                   string          `json:"id"`
	Code                 string          `json:"code"`
	ClientID             string          `json:"client_id"`
	SenderID             string          `json:"sender_id"`
	ReceiverID           string          `json:"receiver_id"`
	OriginAddressID      string          `json:"origin_address_id"`
	DestinationAddressID string          `json:"destination_address_id"`
	CargoTypeID          string          `json:"cargo_type_id"`
	ServiceTypeID        string          `json:"service_type_id"`
	EquipmentID          string          `json:"equipment_id,omitempty"`
	Weight               decimal.Decimal `json:"weight"`
	Volume               decimal.Decimal `json:"volume"`
	Length               decimal.Decimal `json:"length"`
	Width                decimal.Decimal `json:"width"`
	Height               decimal.Decimal `json:"height"`
	Packages             int             `json:"packages"`
	Notes                string          `json:"notes,omitempty"`
	Status               string          `json:"status"`
	ScheduledAt          *time.Time      `json:"scheduled_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
