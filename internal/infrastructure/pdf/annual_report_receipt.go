// Package pdf genera el comprobante de presentación de un reporte anual.
//
// Layout de la página Letter:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: BizDesk + título     │  N° confirmación + fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMPRESA: razón social, tipo, estado, EIN                    │
//	│  PRESENTACIÓN: año fiscal, vencimiento, fecha de presentación│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Concepto | Importe                                   │
//	│  TOTAL                                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"errors"
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

	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 17, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 235, Green: 240, Blue: 246}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.ReceiptRenderer = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa ports.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct {
	issuer string
}

// NewReceiptGenerator construye el generador; issuer aparece en la cabecera.
func NewReceiptGenerator(issuer string) *ReceiptGenerator {
	if issuer == "" {
		issuer = "BizDesk"
	}
	return &ReceiptGenerator{issuer: issuer}
}

// AnnualReportReceipt genera el PDF y devuelve sus bytes. Solo para reportes presentados.
func (g *ReceiptGenerator) AnnualReportReceipt(
	_ context.Context,
	report *entity.AnnualReport,
	business *entity.BusinessEntity,
) ([]byte, error) {
	if report == nil || business == nil {
		return nil, errors.New("pdf: reporte y empresa son obligatorios")
	}
	if report.Status != entity.ReportStatusFiled || report.FiledAt == nil {
		return nil, errors.New("pdf: el reporte no está presentado")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Annual Report Filing Receipt", true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(businessRow(business))
	m.AddRows(filingRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(feeHeaderRow())
	for _, r := range feeRows(report) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(report))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(report) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptGenerator) headerRow(r *entity.AnnualReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.issuer, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Annual Report Filing Receipt", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CONFIRMATION NUMBER", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(r.ConfirmationNumber, "N/A"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Filed: "+r.FiledAt.Format("January 2, 2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func businessRow(b *entity.BusinessEntity) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("BUSINESS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
			text.New(b.LegalName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 7,
			}),
			text.New(fmt.Sprintf("%s   |   %s   |   EIN: %s",
				b.EntityType, b.State, nonEmpty(b.EIN, "pending"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func filingRow(r *entity.AnnualReport) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("FILING", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
			text.New(fmt.Sprintf("Filing year: %d   |   Due date: %s   |   Report ID: %s",
				r.FilingYear, r.DueDate.Format("01/02/2006"), r.ID,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func feeHeaderRow() core.Row {
	cell := func(size int, label string, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		cell(8, "Description", align.Left),
		cell(4, "Amount", align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorLight})
}

type feeLine struct {
	label  string
	amount decimal.Decimal
}

func feeRows(r *entity.AnnualReport) []core.Row {
	items := []feeLine{
		{r.State + " state filing fee", r.StateFee},
		{"Service fee", r.ServiceFee},
	}
	if late := r.AppliedLateFee(); late.IsPositive() {
		items = append(items, feeLine{"Late filing fee", late})
	}

	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(8).Add(text.New(it.label, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(formatUSD(it.amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalRow(r *entity.AnnualReport) core.Row {
	return row.New(10).Add(
		col.New(8).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(4).Add(text.New(formatUSD(r.Total()), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func footerRows(r *entity.AnnualReport) []core.Row {
	verify := fmt.Sprintf("annual-report:%s:%s", r.ID, r.ConfirmationNumber)
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(verify, props.Rect{Percent: 90, Center: true})),
			col.New(9).Add(
				text.New("Keep this receipt as proof of filing with the state.", props.Text{
					Size: 8, Top: 6, Left: 3, Color: colorGray,
				}),
				text.New("The confirmation number above was issued by the filing office.", props.Text{
					Size: 8, Top: 12, Left: 3, Color: colorGray,
				}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatUSD formatea con separador de miles: 1234.5 → "$1,234.50".
func formatUSD(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := "$" + string(buf) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
