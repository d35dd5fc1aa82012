// Package pdf genera las versiones imprimibles de los formularios del portal.
//
// Layout de la página A4 del Anexo 11:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del formulario  │  N° de pedido + Estado    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PERMISIONARIO: Unidad / Barrio / Domicilio / Solicita       │
//	│  INSPECCIÓN: Trabajo / Urgente / Con cargo a / Razón         │
//	│  ADMINISTRACIÓN GENERAL: Observaciones                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HISTORIAL: Fecha | Actor | Rol | Acción | Comentario        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID + leyenda                              │
//	└─────────────────────────────────────────────────────────────┘
//
// El Anexo 01 sigue el mismo esquema con datos del postulante, grupo familiar,
// mascotas y preferencias.
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

	"github.com/marianodev72/sitio98plus-sub001/internal/application/ports"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

var _ ports.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const fechaLayout = "02/01/2006 15:04"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	organismo string
}

// NewMarotoPDFGenerator construye el generador. organismo se imprime en el encabezado.
func NewMarotoPDFGenerator(organismo string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{organismo: nonEmpty(organismo, "Portal de Viviendas")}
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.organismo, true).
		Build()
	return maroto.New(cfg)
}

// Anexo11PDF genera el pedido de mantenimiento con su historial.
func (g *MarotoPDFGenerator) Anexo11PDF(_ context.Context, a *entity.Anexo11) ([]byte, error) {
	m := g.newDocument("Anexo 11 - Pedido de mantenimiento")

	m.AddRows(headerRow(g.organismo, "ANEXO 11 - PEDIDO DE MANTENIMIENTO", a.ID, string(a.Estado), a.CreatedAt.Format(fechaLayout)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	p := a.Permisionario
	m.AddRows(section("PERMISIONARIO",
		fmt.Sprintf("Unidad: %s   |   Barrio: %s   |   Domicilio: %s", p.Unidad, p.Barrio, p.Domicilio),
		fmt.Sprintf("Teléfono: %s   |   Solicita: %s", nonEmpty(p.Telefono, "—"), p.Solicita),
		"Detalle: "+p.Detalle,
	)...)

	if i := a.Inspector; i != nil {
		m.AddRows(section("INSPECCIÓN",
			"Trabajo: "+i.Trabajo,
			fmt.Sprintf("Urgente: %s   |   Con cargo a: %s   |   Razón: %s", siNo(i.Urgente), i.ConCargoA, i.Razon),
		)...)
	}
	if ag := a.AdminGeneral; ag != nil && ag.Observaciones != "" {
		m.AddRows(section("ADMINISTRACIÓN GENERAL", "Observaciones: "+ag.Observaciones)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow(
		headerCol{"Fecha", 2, align.Left},
		headerCol{"Actor", 3, align.Left},
		headerCol{"Rol", 2, align.Left},
		headerCol{"Acción", 3, align.Left},
		headerCol{"Comentario", 2, align.Left},
	))
	if len(a.Historial) == 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Sin movimientos.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	for _, h := range a.Historial {
		m.AddRows(dataRow(
			dataCol{h.Fecha.Format(fechaLayout), 2},
			dataCol{h.ActorNombre, 3},
			dataCol{h.ActorRol, 2},
			dataCol{printable(h.Accion), 3},
			dataCol{nonEmpty(h.Comentario, "—"), 2},
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(a.ID, "Pedido de mantenimiento de vivienda fiscal.")...)
	return generate(m)
}

// Anexo01PDF genera la postulación con el grupo familiar.
func (g *MarotoPDFGenerator) Anexo01PDF(_ context.Context, p *entity.Postulacion) ([]byte, error) {
	m := g.newDocument("Anexo 01 - Postulación")

	m.AddRows(headerRow(g.organismo, "ANEXO 01 - POSTULACIÓN "+p.Tipo, p.ID, p.Estado, p.CreatedAt.Format(fechaLayout)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	d := p.Datos
	m.AddRows(section("DATOS DEL POSTULANTE",
		fmt.Sprintf("%s, %s   |   DNI: %s   |   Matrícula: %s", d.Apellido, d.Nombre, d.DNI, d.Matricula),
		fmt.Sprintf("Grado: %s   |   Destino: %s   |   Estado civil: %s",
			nonEmpty(d.Grado, "—"), nonEmpty(d.Destino, "—"), nonEmpty(d.EstadoCivil, "—")),
		fmt.Sprintf("Teléfono: %s   |   Ingreso mensual: $%s", nonEmpty(d.Telefono, "—"), formatMoney(d.IngresoMensual)),
	)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow(
		headerCol{"Grupo familiar", 4, align.Left},
		headerCol{"Parentesco", 3, align.Left},
		headerCol{"DNI", 2, align.Left},
		headerCol{"Edad", 1, align.Center},
		headerCol{"DIBA", 2, align.Center},
	))
	if len(d.GrupoFamiliar) == 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Sin integrantes declarados.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	for _, f := range d.GrupoFamiliar {
		m.AddRows(dataRow(
			dataCol{f.Nombre, 4},
			dataCol{f.Parentesco, 3},
			dataCol{nonEmpty(f.DNI, "—"), 2},
			dataCol{fmt.Sprint(f.Edad), 1},
			dataCol{siNo(f.AfiliadoDIBA), 2},
		))
	}

	mascotas := make([]string, 0, len(d.Mascotas))
	for _, x := range d.Mascotas {
		mascotas = append(mascotas, fmt.Sprintf("%d %s", x.Cantidad, x.Especie))
	}
	pref := p.Preferencias
	m.AddRows(section("MASCOTAS Y PREFERENCIAS",
		"Mascotas: "+nonEmpty(strings.Join(mascotas, ", "), "ninguna"),
		fmt.Sprintf("Barrios: %s   |   Dormitorios mínimos: %d",
			nonEmpty(strings.Join(pref.Barrios, ", "), "sin preferencia"), pref.DormitoriosMin),
		"Observaciones: "+nonEmpty(pref.Observaciones, "—"),
	)...)

	m.AddRows(section("DECLARACIÓN JURADA",
		fmt.Sprintf("Declara veracidad: %s   |   Acepta reglamento: %s",
			siNo(d.Declaraciones.DeclaraVeracidad), siNo(d.Declaraciones.AceptaReglamento)),
	)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(p.ID, "Postulación a vivienda fiscal. Los datos tienen carácter de declaración jurada.")...)
	return generate(m)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: organismo + título (izq) y N° + estado + fecha (der).
func headerRow(organismo, titulo, id, estado, fecha string) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(organismo, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+shortID(id), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+estado, props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorPrimary,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// section: título en color primario y una fila por línea de texto.
func section(titulo string, lineas ...string) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New(titulo, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)),
	}
	for _, l := range lineas {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(l, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	return rows
}

type headerCol struct {
	label string
	size  int
	align align.Type
}

// tableHeaderRow: cabecera de tabla en blanco sobre la línea primaria.
func tableHeaderRow(cols ...headerCol) core.Row {
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(out...)
}

type dataCol struct {
	value string
	size  int
}

func dataRow(cols ...dataCol) core.Row {
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(c.value, props.Text{Size: 7.5, Top: 1, Left: 1})))
	}
	return row.New(7).Add(out...)
}

// footerRows: QR con el ID completo + leyenda.
func footerRows(id, leyenda string) []core.Row {
	return []core.Row{
		row.New(1).Add(col.New(12)),
		row.New(36).Add(
			col.New(3).Add(code.NewQr(id, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Identificador del documento:", props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
				text.New(id, props.Text{Style: fontstyle.Bold, Size: 9, Top: 10, Left: 3, Color: colorPrimary}),
				text.New(leyenda, props.Text{Size: 7, Top: 20, Left: 3, Color: colorGray}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func siNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// printable reemplaza caracteres fuera de la codificación de las fuentes base.
func printable(s string) string {
	return strings.ReplaceAll(s, "→", " -> ")
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	entero, dec, _ := strings.Cut(s, ".")
	n := len(entero)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(entero) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + dec
	if d.IsNegative() {
		return "-" + out
	}
	return out
}
