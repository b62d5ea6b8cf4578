// Package pdf genera el reporte imprimible de una venta confirmada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Reporte de venta + período  │  N° venta + fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRANSFERENCIAS vinculadas                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA por día: Producto | Canal | Cant | P.Unit | Subtotal │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: USD / Fiscal / Efectivo / TOTAL                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID de la venta                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/costeo-importaciones/internal/application/sales"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 225, Green: 233, Blue: 242}
)

var _ sales.SaleReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa sales.SaleReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	author  string
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador; author aparece en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author, printer: message.NewPrinter(language.Spanish)}
}

// GenerateSaleReport genera el PDF de la venta y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSaleReport(ctx context.Context, sale *entity.Sale) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de venta", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(transfersRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, day := range groupByDate(sale.Lines) {
		m.AddRows(g.dayRows(day)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + período (izq) y N° de venta + fecha de confirmación (der).
func headerRow(sale *entity.Sale) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REPORTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Período: %s al %s", formatDate(sale.PeriodStart), formatDate(sale.PeriodEnd)), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("VENTA N°", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Confirmada: "+formatDate(sale.CreatedAt), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func transfersRow(sale *entity.Sale) core.Row {
	ids := nonEmpty(strings.Join(sale.TransferIDs, ", "), "—")
	return row.New(14).Add(
		col.New(12).Add(
			text.New("TRANSFERENCIAS VINCULADAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(ids, props.Text{Size: 7, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("Canal", 2, align.Center),
		h("Cant.", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// dayRows: subtítulo con la fecha y una fila por línea del día.
func (g *MarotoPDFGenerator) dayRows(day dayLines) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(formatDate(day.date), props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1}),
		)).WithStyle(&props.Cell{BackgroundColor: colorLight}),
	}
	for _, l := range day.lines {
		rows = append(rows, row.New(6).Add(
			col.New(5).Add(text.New(l.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.Channel, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.money(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// totalsRow: totales por canal y total general alineados a la derecha.
func (g *MarotoPDFGenerator) totalsRow(sale *entity.Sale) core.Row {
	totals := sale.ChannelTotals()

	labels := col.New(3)
	values := col.New(3)
	top := 0.0
	for _, ch := range entity.Channels {
		labels.Add(text.New(ch+":", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		values.Add(text.New(g.money(totals[ch]), props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
		top += 5
	}
	labels.Add(text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: top + 1,
	}))
	values.Add(text.New(g.money(sale.Total), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top + 1,
	}))

	return row.New(26).Add(col.New(6), labels, values)
}

// footerRow: QR con el ID completo de la venta para rastrearla en el sistema.
func footerRow(sale *entity.Sale) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(sale.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Venta registrada con sus transferencias de respaldo.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("ID: "+sale.ID, props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

type dayLines struct {
	date  time.Time
	lines []*entity.SaleLine
}

// groupByDate agrupa las líneas por día; dentro del día ordena por producto y canal.
func groupByDate(lines []*entity.SaleLine) []dayLines {
	byDay := map[time.Time][]*entity.SaleLine{}
	for _, l := range lines {
		d := entity.DateOnly(l.Date)
		byDay[d] = append(byDay[d], l)
	}
	out := make([]dayLines, 0, len(byDay))
	for d, ls := range byDay {
		sort.SliceStable(ls, func(i, j int) bool {
			if ls[i].ProductName != ls[j].ProductName {
				return ls[i].ProductName < ls[j].ProductName
			}
			return ls[i].Channel < ls[j].Channel
		})
		out = append(out, dayLines{date: d, lines: ls})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out
}

// money formatea con separadores locales: 1234.5 → "$1.234,50".
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.InexactFloat64())
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
