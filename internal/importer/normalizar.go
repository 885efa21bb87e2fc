package importer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizarClave folds a header or keyword for comparison: whitespace runs
// collapse to one space, then trim, upper-case and accent removal.
func NormalizarClave(s string) string {
	s = strings.ToUpper(strings.Join(strings.Fields(s), " "))
	return sinAcentos(s)
}

func sinAcentos(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

var nulos = []string{"nan", "none", "<na>", "null", "nat"}

// esNulo reports the placeholder spellings spreadsheets and exporters leave in empty cells.
func esNulo(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, n := range nulos {
		if strings.EqualFold(s, n) {
			return true
		}
	}
	return false
}

var (
	reCientifica = regexp.MustCompile(`^[+-]?\d+(\.\d+)?[eE][+-]?\d+$`)
	reDecimal    = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
)

// LimpiarIdentificador cleans an EAN or SAP cell: one trailing ".0" left by a
// float-typed column is removed, then the value is trimmed. Scientific notation
// ("7.8e+12") is expanded back to digits.
func LimpiarIdentificador(s string) string {
	if esNulo(s) {
		return ""
	}
	s = strings.TrimSpace(s)
	if reCientifica.MatchString(s) {
		if d, err := decimal.NewFromString(s); err == nil {
			s = d.String()
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(s, ".0"))
}

// LimpiarNombre trims and upper-cases a product name.
func LimpiarNombre(s string) string {
	if esNulo(s) {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

// LimpiarTexto trims a free-text cell.
func LimpiarTexto(s string) string {
	if esNulo(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// LimpiarPrecio keeps the price as the sheet wrote it, except for the one
// trailing ".0" a float-typed column adds ("1990.0" -> "1990").
func LimpiarPrecio(s string) string {
	s = LimpiarTexto(s)
	if reDecimal.MatchString(s) {
		s = strings.TrimSuffix(s, ".0")
	}
	return s
}

// FilaProducto is one normalised spreadsheet row.
type FilaProducto struct {
	Fila      int // 1-based sheet row, header is row 1
	EAN       string
	SAP       string
	Nombre    string
	Seccion   string
	Stock     string
	UMB       string
	Precio    string
	ImagenURL string
	Categoria string
}

// Vacia reports a row with no data at all (spreadsheet padding).
func (f FilaProducto) Vacia() bool {
	return f.EAN == "" && f.SAP == "" && f.Nombre == "" && f.Seccion == "" && f.Stock == "" &&
		f.UMB == "" && f.Precio == "" && f.ImagenURL == "" && f.Categoria == ""
}

// NormalizarFila maps a raw row through the resolved column indices.
func NormalizarFila(fila int, celdas []string, r Resolucion) FilaProducto {
	celda := func(c Campo) string {
		i, ok := r.Indices[c]
		if !ok || i >= len(celdas) {
			return ""
		}
		return celdas[i]
	}
	return FilaProducto{
		Fila:      fila,
		EAN:       LimpiarIdentificador(celda(CampoEAN)),
		SAP:       LimpiarIdentificador(celda(CampoSAP)),
		Nombre:    LimpiarNombre(celda(CampoNombre)),
		Seccion:   LimpiarTexto(celda(CampoSeccion)),
		Stock:     LimpiarTexto(celda(CampoStock)),
		UMB:       LimpiarTexto(celda(CampoUMB)),
		Precio:    LimpiarPrecio(celda(CampoPrecio)),
		ImagenURL: LimpiarTexto(celda(CampoImagen)),
		Categoria: LimpiarTexto(celda(CampoCategoria)),
	}
}
