// Package pdf genera el reporte de inventario en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación + usuario             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos | stock total | valor | stock bajo      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Precio | Stock | Valor           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  STOCK BAJO: productos con stock ≤ umbral                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/Inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ analytics.StockReportRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa analytics.StockReportRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador. author se usa como metadata del documento.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// RenderStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderStockReport(_ context.Context, rep analytics.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(rep.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(rep.Stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(productRows(rep.Products)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(lowStockRows(rep.Stats)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(rep analytics.StockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(strings.ToUpper(rep.Title), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Por: "+nonEmpty(rep.GeneratedBy, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func summaryRow(st dto.DashboardStatsDTO) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	return row.New(14).Add(
		cell("Productos", fmt.Sprintf("%d", st.TotalProducts)),
		cell("Stock total", formatMoney(fmt.Sprintf("%d", st.TotalStock))),
		cell("Valor del inventario", "$"+formatDecimal(st.TotalInventoryValue)),
		cell(fmt.Sprintf("Stock bajo (<= %d)", st.LowStockThreshold), fmt.Sprintf("%d", st.LowStockCount)),
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
		h("Código", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Precio", 2, align.Right),
		h("Stock", 1, align.Center),
		h("Valor", 3, align.Right),
	)
}

func productRows(products []dto.ProductStockDTO) []core.Row {
	if len(products) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin productos activos.", props.Text{Size: 8, Color: colorGray, Top: 2, Align: align.Center}),
		))}
	}
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		value := p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(nonEmpty(p.Code, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatDecimal(p.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", p.Stock), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New("$"+formatDecimal(value), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func lowStockRows(st dto.DashboardStatsDTO) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("PRODUCTOS CON STOCK BAJO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorAlert, Top: 1}),
		)),
	}
	if len(st.LowStockProducts) == 0 {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Ninguno.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	for _, p := range st.LowStockProducts {
		rows = append(rows, row.New(5).Add(
			col.New(9).Add(text.New(p.Name, props.Text{Size: 8, Top: 0.5, Left: 2})),
			col.New(3).Add(text.New(fmt.Sprintf("%d u.", p.Stock), props.Text{Size: 8, Align: align.Right, Top: 0.5, Color: colorAlert})),
		))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatDecimal dos decimales con separador de miles: 1234.5 → "1.234,50".
func formatDecimal(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := formatMoney(intPart) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
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
