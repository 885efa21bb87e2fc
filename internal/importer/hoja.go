package importer

import (
	"fmt"
)

// MarcadoresHoja are header names only found on the full product sheet
// (the summary sheets in the same workbook lack them). Order is priority.
var MarcadoresHoja = []string{"IMAGEN", "IMAGE", "URL IMAGEN", "RUBRO", "CATEGORIA", "CATEGORY"}

// Seleccion describes the sheet chosen for import.
type Seleccion struct {
	Hoja        string
	Encabezados []string
	Marcador    string // header that decided the choice, empty on fallback
	Respaldo    bool   // true when no sheet matched and the first one was used
}

// SeleccionarHoja returns the first sheet, in workbook order, whose header row
// contains a marker. Without a match the first sheet is returned with Respaldo set.
func SeleccionarHoja(l Libro, marcadores []string) (Seleccion, error) {
	hojas := l.Hojas()
	if len(hojas) == 0 {
		return Seleccion{}, fmt.Errorf("%w: workbook has no sheets", ErrArchivoIlegible)
	}

	buscados := make([]string, 0, len(marcadores))
	for _, m := range marcadores {
		buscados = append(buscados, NormalizarClave(m))
	}

	var primera []string
	for i, h := range hojas {
		enc, err := l.Encabezados(h)
		if err != nil {
			return Seleccion{}, fmt.Errorf("%w: sheet %q: %v", ErrArchivoIlegible, h, err)
		}
		if i == 0 {
			primera = enc
		}
		presentes := make(map[string]bool, len(enc))
		for _, e := range enc {
			presentes[NormalizarClave(e)] = true
		}
		for j, m := range buscados {
			if presentes[m] {
				return Seleccion{Hoja: h, Encabezados: enc, Marcador: marcadores[j]}, nil
			}
		}
	}
	return Seleccion{Hoja: hojas[0], Encabezados: primera, Respaldo: true}, nil
}
