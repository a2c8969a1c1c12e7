// Package pdf genera la guía de despacho de una orden de transporte.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tenant + RUT        │  GUÍA DE DESPACHO + código    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PARTES: Cliente | Remitente | Destinatario                  │
//	│  RUTA: Origen → Destino (dirección + comuna)                 │
//	│  SERVICIO: Tipo de carga | Tipo de servicio | Equipo         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Peso | Volumen | Largo | Ancho | Alto | Bultos       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el código + observaciones                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/application/shipping"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/pkg/rut"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dash = "—"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoOrderDocumentGenerator implementa shipping.OrderDocumentGenerator usando Maroto v2.
type MarotoOrderDocumentGenerator struct{}

// NewMarotoOrderDocumentGenerator construye el generador.
func NewMarotoOrderDocumentGenerator() *MarotoOrderDocumentGenerator {
	return &MarotoOrderDocumentGenerator{}
}

var _ shipping.OrderDocumentGenerator = (*MarotoOrderDocumentGenerator)(nil)

// GenerateOrderDocument genera el PDF y devuelve sus bytes.
func (g *MarotoOrderDocumentGenerator) GenerateOrderDocument(_ context.Context, doc *shipping.OrderDocument) ([]byte, error) {
	if doc == nil || doc.Order == nil {
		return nil, fmt.Errorf("pdf: orden requerida")
	}
	author := dash
	if doc.Tenant != nil {
		author = doc.Tenant.Name
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de despacho "+doc.Order.Code, true).
		WithAuthor(author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(doc))
	m.AddRows(routeRow(doc))
	m.AddRows(serviceRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(measuresRow(doc.Order))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc.Order))

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdf.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tenant + RUT (izq) y código + estado + fecha (der).
func headerRow(doc *shipping.OrderDocument) core.Row {
	name, taxID := dash, dash
	if doc.Tenant != nil {
		name, taxID = doc.Tenant.Name, rut.Format(doc.Tenant.TaxID)
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUT: "+taxID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("GUÍA DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Order.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Estado: "+string(doc.Order.Status), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New("Emitida: "+doc.IssuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

// block: título en color primario con hasta dos líneas de detalle.
func block(size int, title, main, detail string) core.Col {
	return col.New(size).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(main, props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 6,
		}),
		text.New(detail, props.Text{Size: 8, Top: 11, Color: colorGray}),
	)
}

func partiesRow(doc *shipping.OrderDocument) core.Row {
	var client *entity.Entidad
	if doc.Client != nil {
		client = doc.Client.Entity
	}
	return row.New(18).Add(
		block(4, "CLIENTE", entityName(client), entityTaxID(client)),
		block(4, "REMITENTE", entityName(doc.Sender), entityTaxID(doc.Sender)),
		block(4, "DESTINATARIO", entityName(doc.Receiver), entityTaxID(doc.Receiver)),
	)
}

func routeRow(doc *shipping.OrderDocument) core.Row {
	return row.New(18).Add(
		block(6, "ORIGEN", addressText(doc.Origin), comunaName(doc.Origin)),
		block(6, "DESTINO", addressText(doc.Destination), comunaName(doc.Destination)),
	)
}

func serviceRow(doc *shipping.OrderDocument) core.Row {
	scheduled := dash
	if doc.Order.ScheduledAt != nil {
		scheduled = doc.Order.ScheduledAt.In(doc.IssuedAt.Location()).Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		block(3, "TIPO DE CARGA", catalogName(doc.CargoType), ""),
		block(3, "TIPO DE SERVICIO", catalogName(doc.ServiceType), ""),
		block(3, "EQUIPO", catalogName(doc.Equipment), ""),
		block(3, "PROGRAMADA", scheduled, ""),
	)
}

// tableHeaderRow: cabecera de la tabla de medidas.
func tableHeaderRow() core.Row {
	h := func(label string) core.Col {
		return col.New(2).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center,
			Color: colorWhite, Top: 2,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Peso (kg)"), h("Volumen (m³)"), h("Largo (m)"), h("Ancho (m)"), h("Alto (m)"), h("Bultos"),
	)
}

func measuresRow(o *entity.Order) core.Row {
	v := func(s string) core.Col {
		return col.New(2).Add(text.New(s, props.Text{Size: 9, Align: align.Center, Top: 2}))
	}
	return row.New(9).Add(
		v(formatDecimal(o.Weight)),
		v(formatDecimal(o.Volume)),
		v(formatDecimal(o.Length)),
		v(formatDecimal(o.Width)),
		v(formatDecimal(o.Height)),
		v(fmt.Sprintf("%d", o.Packages)),
	)
}

// footerRow: QR con el código de la orden y observaciones.
func footerRow(o *entity.Order) core.Row {
	notes := nonEmpty(o.Notes, "Sin observaciones.")
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(o.Code, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("OBSERVACIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 3,
			}),
			text.New(notes, props.Text{Size: 8, Top: 8, Left: 3}),
			text.New("Firma y RUT de quien recibe: ______________________________", props.Text{
				Size: 8, Top: 32, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func entityName(e *entity.Entidad) string {
	if e == nil || e.Name == nil {
		return dash
	}
	return e.Name.DisplayName()
}

func entityTaxID(e *entity.Entidad) string {
	if e == nil {
		return ""
	}
	return "RUT " + rut.Format(e.TaxID)
}

func addressText(a *entity.Address) string {
	if a == nil {
		return dash
	}
	return a.Text
}

func comunaName(a *entity.Address) string {
	if a == nil || a.Comuna == nil {
		return ""
	}
	return a.Comuna.Name
}

func catalogName(it *entity.CatalogItem) string {
	if it == nil {
		return dash
	}
	return it.Name
}

// formatDecimal formatea al estilo chileno: punto de miles y coma decimal, sin ceros
// sobrantes. Ej: 1250.50 → "1.250,5".
func formatDecimal(d decimal.Decimal) string {
	s := d.Round(3).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	out := sign + groupThousands(intPart)
	if frac = strings.TrimRight(frac, "0"); frac != "" {
		out += "," + frac
	}
	return out
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
