// Package export renders the admin report of flyer requests in the
// downloadable formats the panel offers.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/agenda-cultural/agenda-api/internal/models"
)

const fechaCorta = "2006-01-02"

// columna fixes a report column: its heading, its PDF width in mm and
// how to extract the cell from a solicitud.
type columna struct {
	titulo string
	ancho  float64
	valor  func(models.SolicitudFlyer) string
}

var columnasSolicitud = []columna{
	{"ID", 34, func(s models.SolicitudFlyer) string { return s.ID }},
	{"Evento", 30, func(s models.SolicitudFlyer) string { return s.NombreEvento }},
	{"Tipo", 16, func(s models.SolicitudFlyer) string { return s.TipoEvento }},
	{"Fecha evento", 20, func(s models.SolicitudFlyer) string { return s.FechaEvento.Format(fechaCorta) }},
	{"Estado", 16, func(s models.SolicitudFlyer) string { return string(s.Estado) }},
	{"Prioridad", 14, func(s models.SolicitudFlyer) string { return string(s.Prioridad) }},
	{"Contacto", 30, func(s models.SolicitudFlyer) string { return s.EmailContacto }},
	{"Creada", 15, func(s models.SolicitudFlyer) string { return s.CreatedAt.Format(fechaCorta) }},
	{"Completada", 15, func(s models.SolicitudFlyer) string {
		if s.FechaCompletado == nil {
			return ""
		}
		return s.FechaCompletado.Format(fechaCorta)
	}},
}

// SolicitudesCSV renders the flyer-request report as CSV bytes.
func SolicitudesCSV(solicitudes []models.SolicitudFlyer) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	encabezados := make([]string, len(columnasSolicitud))
	for i, col := range columnasSolicitud {
		encabezados[i] = col.titulo
	}
	if err := writer.Write(encabezados); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}

	registro := make([]string, len(columnasSolicitud))
	for _, s := range solicitudes {
		for i, col := range columnasSolicitud {
			registro[i] = col.valor(s)
		}
		if err := writer.Write(registro); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// SolicitudesPDF renders the flyer-request report as a tabular PDF.
func SolicitudesPDF(solicitudes []models.SolicitudFlyer, titulo string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if titulo != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(titulo), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 9)
	for _, col := range columnasSolicitud {
		pdf.CellFormat(col.ancho, 8, col.titulo, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, s := range solicitudes {
		for _, col := range columnasSolicitud {
			pdf.CellFormat(col.ancho, 7, col.valor(s), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
