package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/shipping"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

func TestFormatDecimal(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"1250.50":  "1.250,5",
		"1000000":  "1.000.000",
		"12.3456":  "12,346",
		"-4500.25": "-4.500,25",
		"999":      "999",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatDecimal(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateOrderDocument(t *testing.T) {
	scheduled := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	doc := &shipping.OrderDocument{
		Order: &entity.Order{
			Code:        "ORD-20240601-001",
			Status:      entity.OrderStatusPlanned,
			Weight:      decimal.RequireFromString("1250.5"),
			Volume:      decimal.RequireFromString("3.2"),
			Packages:    4,
			Notes:       "Frágil",
			ScheduledAt: &scheduled,
		},
		Tenant: &entity.Tenant{Name: "Transportes Sur", TaxID: "76543210-3"},
		Client: &entity.PartyRecord{Entity: &entity.Entidad{
			TaxID: "33333333-3", Name: entity.Organization{LegalName: "Acme SpA"},
		}},
		Receiver: &entity.Entidad{TaxID: "12345678-5", Name: entity.Person{Name: "Juan Pérez"}},
		Origin:   &entity.Address{Text: "Av. Libertador 1000", Comuna: &entity.Comuna{Name: "Santiago"}},
		IssuedAt: time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
	}

	out, err := NewMarotoOrderDocumentGenerator().GenerateOrderDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateOrderDocument_SinOrden(t *testing.T) {
	_, err := NewMarotoOrderDocumentGenerator().GenerateOrderDocument(context.Background(), &shipping.OrderDocument{})
	assert.Error(t, err)
}
