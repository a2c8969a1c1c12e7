package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

func TestOrderStatus_Flujo(t *testing.T) {
	assert.True(t, entity.OrderStatusPending.CanTransitionTo(entity.OrderStatusPlanned))
	assert.True(t, entity.OrderStatusPlanned.CanTransitionTo(entity.OrderStatusInTransit))
	assert.True(t, entity.OrderStatusInTransit.CanTransitionTo(entity.OrderStatusDelivered))

	assert.False(t, entity.OrderStatusPending.CanTransitionTo(entity.OrderStatusInTransit), "no se salta estados")
	assert.False(t, entity.OrderStatusPlanned.CanTransitionTo(entity.OrderStatusPending), "no retrocede")
}

func TestOrderStatus_CancelacionDesdeNoTerminal(t *testing.T) {
	for _, s := range []entity.OrderStatus{entity.OrderStatusPending, entity.OrderStatusPlanned, entity.OrderStatusInTransit} {
		assert.True(t, s.CanTransitionTo(entity.OrderStatusCancelled), s)
	}
	assert.False(t, entity.OrderStatusDelivered.CanTransitionTo(entity.OrderStatusCancelled))
	assert.False(t, entity.OrderStatusCancelled.CanTransitionTo(entity.OrderStatusPending))
}

func TestFormatOrderCode(t *testing.T) {
	day := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD-20240601-008", entity.FormatOrderCode(day, 8))
	assert.Equal(t, "ORD-20240601-1000", entity.FormatOrderCode(day, 1000))
}

func TestOrderCodeSequence(t *testing.T) {
	prefix := "ORD-20240601-"
	n, ok := entity.OrderCodeSequence("ORD-20240601-007", prefix)
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = entity.OrderCodeSequence("ORD-20240531-007", prefix)
	assert.False(t, ok)
	_, ok = entity.OrderCodeSequence("ORD-20240601-ABC", prefix)
	assert.False(t, ok)
	_, ok = entity.OrderCodeSequence("ORD-20240601-+7", prefix)
	assert.False(t, ok)

	n, ok = entity.OrderCodeSequence("ORD-20240601-999999999", prefix)
	assert.True(t, ok)
	assert.Equal(t, 999999999, n)
	_, ok = entity.OrderCodeSequence("ORD-20240601-99999999999", prefix)
	assert.False(t, ok, "sufijo demasiado largo para el contador")
}

func TestValidCode(t *testing.T) {
	assert.True(t, entity.ValidCode("CLIENTES_VER-1"))
	assert.False(t, entity.ValidCode("clientes ver"))
	assert.False(t, entity.ValidCode(""))
}

func TestPartyNameFromColumns(t *testing.T) {
	name, legal := "Juan Pérez", "Acme SpA"
	assert.Equal(t, entity.Person{Name: name}, entity.PartyNameFromColumns(true, &name, &legal))
	assert.Equal(t, entity.Organization{LegalName: legal}, entity.PartyNameFromColumns(false, &name, &legal))
	assert.Nil(t, entity.PartyNameFromColumns(false, &name, nil))
	assert.True(t, entity.IsPerson(entity.Person{Name: name}))
	assert.False(t, entity.IsPerson(entity.Organization{LegalName: legal}))
}
