package infra

// pdf.go: expiration alert report rendered with go-pdf/fpdf.
// A4 portrait, one row per alert: date, EAN, product, remaining days and status.
// Expired rows are printed in red, rows inside the alert window in orange.

import (
	"bytes"
	"fmt"
	"time"

	"jumboscan/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerarReporteAlertas renders the alert list and returns the PDF bytes.
func GenerarReporteAlertas(alertas []dto.AlertaResponse, generado time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr("Control de vencimientos"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, generado.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%d alertas", len(alertas)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	cols := []struct {
		titulo string
		ancho  float64
		align  string
	}{
		{"Fecha", 0.13, "L"},
		{"EAN", 0.17, "L"},
		{"Producto", 0.40, "L"},
		{"Dias", 0.08, "R"},
		{"Estado", 0.22, "L"},
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(contentW*c.ancho, 6, tr(c.titulo), "B", ln, c.align, true, 0, "")
	}

	// ── Rows ──────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, a := range alertas {
		switch a.Estado {
		case dto.EstadoVencido:
			pdf.SetTextColor(190, 20, 20)
		case dto.EstadoAlerta:
			pdf.SetTextColor(200, 110, 0)
		default:
			pdf.SetTextColor(0, 0, 0)
		}
		nombre := []rune(a.NombreProducto)
		if len(nombre) > 48 {
			nombre = append(nombre[:47], '.')
		}
		valores := []string{
			a.FechaVencimiento,
			a.EAN,
			string(nombre),
			fmt.Sprintf("%d", a.DiasRestantes),
			a.MensajeEstado,
		}
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(contentW*c.ancho, 5, tr(valores[i]), "", ln, c.align, false, 0, "")
		}
	}
	pdf.SetTextColor(0, 0, 0)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
