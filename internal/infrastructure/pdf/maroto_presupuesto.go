// Package pdf genera la representación en PDF del presupuesto que se adjunta
// al correo del cliente.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Taller + N° Presupuesto + vencimiento              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE / EQUIPO / DIAGNÓSTICO                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P. Original | P. Alternativo   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES por pista de precio + mano de obra                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

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

	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPresupuestoGenerator implementa presupuesto.PDFGenerator usando Maroto v2.
type MarotoPresupuestoGenerator struct{}

var _ presupuesto.PDFGenerator = (*MarotoPresupuestoGenerator)(nil)

// NewMarotoPresupuestoGenerator construye el generador.
func NewMarotoPresupuestoGenerator() *MarotoPresupuestoGenerator { return &MarotoPresupuestoGenerator{} }

// GenerarPresupuesto genera el PDF y devuelve sus bytes.
func (g *MarotoPresupuestoGenerator) GenerarPresupuesto(d presupuesto.PDFDatos) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Presupuesto "+d.Numero, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(d))
	m.AddRows(diagnosticoRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(d))
	for _, r := range tableDetailRows(d) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(d)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre del documento + número (izq), vencimiento (der).
func headerRow(d presupuesto.PDFDatos) core.Row {
	vence := "Sin fecha de vencimiento"
	if d.FechaVencimiento != nil {
		vence = "Válido hasta: " + d.FechaVencimiento.Format("02/01/2006")
	}
	return row.New(14).Add(
		col.New(7).Add(
			text.New("PRESUPUESTO DE REPARACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New(d.Numero, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 8,
			}),
		),
		col.New(5).Add(
			text.New(vence, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func clienteRow(d presupuesto.PDFDatos) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("Cliente: "+d.ClienteNombre, props.Text{Size: 9, Top: 1}),
			text.New("Equipo: "+d.EquipoDescripcion, props.Text{Size: 9, Top: 6, Color: colorGray}),
		),
	)
}

func diagnosticoRow(d presupuesto.PDFDatos) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DIAGNÓSTICO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(d.Diagnostico, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

func tableHeaderRow(d presupuesto.PDFDatos) core.Row {
	cols := []core.Col{
		col.New(1).Add(text.New("Cant", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(6).Add(text.New("Descripción", props.Text{Style: fontstyle.Bold, Size: 8})),
	}
	if d.MostrarOriginal {
		cols = append(cols, col.New(2).Add(text.New("P. Original", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right,
		})))
	}
	if d.MostrarAlternativo {
		cols = append(cols, col.New(2).Add(text.New("P. Alternativo", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right,
		})))
	}
	return row.New(6).Add(cols...)
}

func tableDetailRows(d presupuesto.PDFDatos) []core.Row {
	rows := make([]core.Row, 0, len(d.Detalles))
	for _, det := range d.Detalles {
		cols := []core.Col{
			col.New(1).Add(text.New(fmt.Sprintf("%d", det.Cantidad), props.Text{Size: 8})),
			col.New(6).Add(text.New(det.Descripcion, props.Text{Size: 8})),
		}
		if d.MostrarOriginal {
			cols = append(cols, col.New(2).Add(text.New("$"+det.PrecioOriginal.StringFixed(2), props.Text{
				Size: 8, Align: align.Right,
			})))
		}
		if d.MostrarAlternativo {
			precio := det.PrecioOriginal
			if det.TieneAlternativo {
				precio = det.PrecioAlternativo
			}
			cols = append(cols, col.New(2).Add(text.New("$"+precio.StringFixed(2), props.Text{
				Size: 8, Align: align.Right,
			})))
		}
		rows = append(rows, row.New(5).Add(cols...))
	}
	return rows
}

func totalsRows(d presupuesto.PDFDatos) []core.Row {
	rows := []core.Row{
		row.New(5).Add(
			col.New(9).Add(text.New("Mano de obra", props.Text{Size: 8, Align: align.Right})),
			col.New(3).Add(text.New("$"+d.ManoDeObra.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
		),
	}
	if d.MostrarOriginal {
		rows = append(rows, row.New(6).Add(
			col.New(9).Add(text.New("TOTAL REPUESTOS ORIGINALES", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary,
			})),
			col.New(3).Add(text.New("$"+d.TotalOriginal.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
			})),
		))
	}
	if d.MostrarAlternativo {
		rows = append(rows, row.New(6).Add(
			col.New(9).Add(text.New("TOTAL REPUESTOS ALTERNATIVOS", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary,
			})),
			col.New(3).Add(text.New("$"+d.TotalAlternativo.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
			})),
		))
	}
	return rows
}
