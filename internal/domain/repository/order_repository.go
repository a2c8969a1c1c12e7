package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// OrderFilter filtros del listado de órdenes.
type OrderFilter struct {
	ListParams
	Status   entity.OrderStatus
	ClientID string
	From     *time.Time
	To       *time.Time
}

// OrderRepository puerto de persistencia para Order.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error)
	GetByCode(ctx context.Context, tenantID, code string) (*entity.Order, error)
	// Update escribe la orden solo si sigue en el estado expected; si otro cambio
	// llegó antes devuelve domain.ErrConflict.
	Update(ctx context.Context, o *entity.Order, expected entity.OrderStatus) error
	List(ctx context.Context, tenantID string, f OrderFilter) (*Page[*entity.Order], error)
	// NextSequence reserva el siguiente correlativo diario ORD-YYYYMMDD-NNN del tenant.
	// El avance es atómico frente a creaciones concurrentes y nunca queda por debajo
	// del mayor sufijo ya usado en ese día.
	NextSequence(ctx context.Context, tenantID string, day time.Time) (int, error)
}
