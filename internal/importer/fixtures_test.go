package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type hojaFixture struct {
	nombre string
	filas  [][]any
}

// writeXLSX writes the sheets in order and returns the file path.
func writeXLSX(t *testing.T, hojas ...hojaFixture) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, h := range hojas {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", h.nombre))
		} else {
			_, err := f.NewSheet(h.nombre)
			require.NoError(t, err)
		}
		for j, fila := range h.filas {
			celda, err := excelize.CoordinatesToCellName(1, j+1)
			require.NoError(t, err)
			fila := fila
			require.NoError(t, f.SetSheetRow(h.nombre, celda, &fila))
		}
	}

	ruta := filepath.Join(t.TempDir(), "productos.xlsx")
	require.NoError(t, f.SaveAs(ruta))
	return ruta
}

var encabezadoHistorico = []any{"Sección", "SAP", "Código Barra Principal", "nombre_producto", "STOCK \n11-09-2025", "Unidad de Medida Base (UMB)", "Precio Venta", "Imagen"}

func hojaResumen() hojaFixture {
	return hojaFixture{nombre: "Resumen", filas: [][]any{
		{"Sección", "Total"},
		{"LACTEOS", "120"},
	}}
}

func hojaDetalle(filas ...[]any) hojaFixture {
	return hojaFixture{nombre: "Detalle", filas: append([][]any{encabezadoHistorico}, filas...)}
}
