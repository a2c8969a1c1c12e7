package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus es el estado de una orden de transporte.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDIENTE"
	OrderStatusPlanned   OrderStatus = "PLANIFICADA"
	OrderStatusInTransit OrderStatus = "EN_TRANSPORTE"
	OrderStatusDelivered OrderStatus = "ENTREGADA"
	OrderStatusCancelled OrderStatus = "CANCELADA"
)

// orderFlow define el avance normal de una orden. CANCELADA se admite desde cualquier
// estado no terminal y no figura aquí.
var orderFlow = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusPlanned,
	OrderStatusPlanned:   OrderStatusInTransit,
	OrderStatusInTransit: OrderStatusDelivered,
}

// Valid informa si el estado pertenece al vocabulario conocido.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPlanned, OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal informa si la orden ya no admite cambios de estado.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo informa si el cambio de estado s -> next está permitido.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return orderFlow[s] == next
}

// OrderCodePrefix devuelve el prefijo diario de códigos generados: ORD-YYYYMMDD-.
func OrderCodePrefix(day time.Time) string {
	return "ORD-" + day.Format("20060102") + "-"
}

// FormatOrderCode arma el código ORD-YYYYMMDD-NNN (NNN con al menos 3 dígitos).
func FormatOrderCode(day time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", OrderCodePrefix(day), seq)
}

// MaxOrderSeqDigits ancho máximo de sufijo que cuenta para el correlativo diario.
// Un código manual con un sufijo más largo no se considera: no cabe en el contador (INT).
const MaxOrderSeqDigits = 9

// OrderCodeSequence extrae el correlativo de un código con el prefijo dado.
func OrderCodeSequence(code, prefix string) (int, bool) {
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	suffix := code[len(prefix):]
	if suffix == "" || len(suffix) > MaxOrderSeqDigits {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Order es una orden de transporte de un tenant.
type Order struct {
	ID                   string
	TenantID             string
	Code                 string
	ClientID             string
	SenderID             string // entidad remitente
	ReceiverID           string // entidad destinataria
	OriginAddressID      string
	DestinationAddressID string
	CargoTypeID          string
	ServiceTypeID        string
	// EquipmentID es opcional (vacío si la orden no requiere equipo).
	EquipmentID          string
	Weight               decimal.Decimal // kg
	Volume               decimal.Decimal // m3
	Length               decimal.Decimal // m
	Width                decimal.Decimal // m
	Height               decimal.Decimal // m
	Packages             int
	Notes                string
	Status               OrderStatus
	ScheduledAt          *time.Time
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
