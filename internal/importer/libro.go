package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Libro is a read-only workbook: an ordered list of sheets made of string cells.
type Libro interface {
	Hojas() []string
	// Encabezados returns the first row of hoja only.
	Encabezados(hoja string) ([]string, error)
	// Filas returns every row of hoja after the header.
	Filas(hoja string) ([][]string, error)
	Close() error
}

// AbrirLibro opens ruta with the reader matching its extension.
func AbrirLibro(ruta string) (Libro, error) {
	switch strings.ToLower(filepath.Ext(ruta)) {
	case ".xlsx", ".xlsm", ".xltx":
		f, err := excelize.OpenFile(ruta)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArchivoIlegible, err)
		}
		return &libroExcelize{f: f}, nil
	case ".xls":
		wb, closer, err := xls.OpenWithCloser(ruta, "utf-8")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArchivoIlegible, err)
		}
		return newLibroXLS(wb, closer), nil
	case ".csv":
		return abrirCSV(ruta)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrArchivoIlegible, filepath.Ext(ruta))
	}
}

// ── xlsx ──────────────────────────────────────────────────────────────────────

type libroExcelize struct {
	f *excelize.File
}

func (l *libroExcelize) Hojas() []string { return l.f.GetSheetList() }

func (l *libroExcelize) Encabezados(hoja string) ([]string, error) {
	rows, err := l.f.Rows(hoja)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Error()
	}
	return rows.Columns(excelize.Options{RawCellValue: true})
}

func (l *libroExcelize) Filas(hoja string) ([][]string, error) {
	// raw values keep long barcodes from being rendered as 7.8E+12
	rows, err := l.f.GetRows(hoja, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (l *libroExcelize) Close() error { return l.f.Close() }

// ── xls (BIFF) ────────────────────────────────────────────────────────────────

type libroXLS struct {
	wb     *xls.WorkBook
	closer io.Closer
	hojas  []string
	indice map[string]int
}

func newLibroXLS(wb *xls.WorkBook, closer io.Closer) *libroXLS {
	l := &libroXLS{wb: wb, closer: closer, indice: make(map[string]int)}
	for i := 0; i < wb.NumSheets(); i++ {
		s := wb.GetSheet(i)
		if s == nil {
			continue
		}
		l.hojas = append(l.hojas, s.Name)
		l.indice[s.Name] = i
	}
	return l
}

func (l *libroXLS) Hojas() []string { return l.hojas }

func (l *libroXLS) hoja(nombre string) (*xls.WorkSheet, error) {
	i, ok := l.indice[nombre]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", nombre)
	}
	return l.wb.GetSheet(i), nil
}

func filaXLS(s *xls.WorkSheet, i int) []string {
	row := s.Row(i)
	if row == nil {
		return nil
	}
	celdas := make([]string, row.LastCol())
	for j := range celdas {
		celdas[j] = row.Col(j)
	}
	return celdas
}

func (l *libroXLS) Encabezados(nombre string) ([]string, error) {
	s, err := l.hoja(nombre)
	if err != nil {
		return nil, err
	}
	return filaXLS(s, 0), nil
}

func (l *libroXLS) Filas(nombre string) ([][]string, error) {
	s, err := l.hoja(nombre)
	if err != nil {
		return nil, err
	}
	var filas [][]string
	for i := 1; i <= int(s.MaxRow); i++ {
		filas = append(filas, filaXLS(s, i))
	}
	return filas, nil
}

func (l *libroXLS) Close() error { return l.closer.Close() }

// ── csv ───────────────────────────────────────────────────────────────────────

// libroCSV is a single-sheet workbook named after the file.
type libroCSV struct {
	nombre string
	filas  [][]string
}

func abrirCSV(ruta string) (*libroCSV, error) {
	raw, err := os.ReadFile(ruta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchivoIlegible, err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(raw))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	if bytes.Count(firstLine(raw), []byte(";")) > bytes.Count(firstLine(raw), []byte(",")) {
		r.Comma = ';'
	}
	filas, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchivoIlegible, err)
	}
	base := filepath.Base(ruta)
	return &libroCSV{nombre: strings.TrimSuffix(base, filepath.Ext(base)), filas: filas}, nil
}

func firstLine(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i]
	}
	return b
}

func (l *libroCSV) Hojas() []string { return []string{l.nombre} }

func (l *libroCSV) Encabezados(string) ([]string, error) {
	if len(l.filas) == 0 {
		return nil, nil
	}
	return l.filas[0], nil
}

func (l *libroCSV) Filas(string) ([][]string, error) {
	if len(l.filas) <= 1 {
		return nil, nil
	}
	return l.filas[1:], nil
}

func (l *libroCSV) Close() error { return nil }
