package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverColumnas_HistoricalLayout(t *testing.T) {
	enc := []string{"Sección", "SAP", "Código Barra Principal", "nombre_producto", "STOCK \n11-09-2025", "Unidad de Medida Base (UMB)", "Precio Venta", "Imagen"}
	res := ResolverColumnas(enc, AliasPorDefecto)

	assert.Equal(t, 0, res.Indices[CampoSeccion])
	assert.Equal(t, 1, res.Indices[CampoSAP])
	assert.Equal(t, 2, res.Indices[CampoEAN])
	assert.Equal(t, 3, res.Indices[CampoNombre])
	assert.Equal(t, 4, res.Indices[CampoStock])
	assert.Equal(t, 5, res.Indices[CampoUMB])
	assert.Equal(t, 6, res.Indices[CampoPrecio])
	assert.Equal(t, 7, res.Indices[CampoImagen])
	assert.Equal(t, []Campo{CampoCategoria}, res.Faltantes)
}

func TestResolverColumnas_CleanedLayout(t *testing.T) {
	enc := []string{"ean_limpio", "producto_limpio", "Rubro", "precio"}
	res := ResolverColumnas(enc, AliasPorDefecto)

	assert.Equal(t, 0, res.Indices[CampoEAN])
	assert.Equal(t, 1, res.Indices[CampoNombre])
	assert.Equal(t, 2, res.Indices[CampoCategoria])
	assert.Equal(t, 3, res.Indices[CampoPrecio])
	assert.True(t, res.Tiene(CampoCategoria))
	assert.Contains(t, res.Faltantes, CampoSAP)
	assert.Contains(t, res.Faltantes, CampoStock)
}

func TestResolverColumnas_ExactBeatsContainment(t *testing.T) {
	enc := []string{"Stock Bodega 01-01", "Stock"}
	res := ResolverColumnas(enc, AliasPorDefecto)
	assert.Equal(t, 1, res.Indices[CampoStock])
}

func TestResolverColumnas_EmptyHeader(t *testing.T) {
	res := ResolverColumnas(nil, AliasPorDefecto)
	assert.Empty(t, res.Indices)
	assert.Len(t, res.Faltantes, len(AliasPorDefecto.Campos))
}
