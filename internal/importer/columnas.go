package importer

import "strings"

// Campo is a canonical product field the importer knows how to fill.
type Campo string

const (
	CampoEAN       Campo = "ean"
	CampoSAP       Campo = "sap"
	CampoNombre    Campo = "nombre"
	CampoSeccion   Campo = "seccion"
	CampoStock     Campo = "stock"
	CampoUMB       Campo = "umb"
	CampoPrecio    Campo = "precio"
	CampoImagen    Campo = "imagen_url"
	CampoCategoria Campo = "categoria" // classification only, not persisted
)

// AliasCampo lists every header spelling seen for a field across sheet
// revisions. Contiene, when set, also accepts any header containing the token
// (the stock column carries the export date in its title).
type AliasCampo struct {
	Campo     Campo
	Variantes []string
	Contiene  string
}

// TablaAlias is the versioned header-to-field mapping.
type TablaAlias struct {
	Version int
	Campos  []AliasCampo
}

// AliasPorDefecto covers every layout the product sheet has had.
var AliasPorDefecto = TablaAlias{
	Version: 3,
	Campos: []AliasCampo{
		{Campo: CampoEAN, Variantes: []string{"Código Barra Principal", "Codigo Barra", "EAN", "ean_limpio", "Código de Barras", "Barcode"}},
		{Campo: CampoSAP, Variantes: []string{"SAP", "Código SAP", "Material", "sap_limpio"}},
		{Campo: CampoNombre, Variantes: []string{"nombre_producto", "Descripción", "Descripcion Material", "producto_limpio", "Nombre", "Producto"}},
		{Campo: CampoSeccion, Variantes: []string{"Sección", "Pasillo", "Ubicación"}},
		{Campo: CampoStock, Variantes: []string{"Stock", "Stock Actual"}, Contiene: "STOCK"},
		{Campo: CampoUMB, Variantes: []string{"Unidad de Medida Base (UMB)", "UMB", "Unidad de Medida"}},
		{Campo: CampoPrecio, Variantes: []string{"Precio Venta", "Precio", "PVP"}},
		{Campo: CampoImagen, Variantes: []string{"Imagen", "Image", "URL Imagen", "imagen_url"}},
		{Campo: CampoCategoria, Variantes: []string{"Rubro", "Categoría", "Category", "Familia"}},
	},
}

// Resolucion is the outcome of matching a header row against a TablaAlias.
type Resolucion struct {
	Indices   map[Campo]int
	Faltantes []Campo
}

// Tiene reports whether c was found in the header row.
func (r Resolucion) Tiene(c Campo) bool {
	_, ok := r.Indices[c]
	return ok
}

// ResolverColumnas maps each canonical field to a column index. Exact alias
// matches are resolved for every field before any containment token is tried,
// and a column is never assigned to two fields.
func ResolverColumnas(encabezados []string, tabla TablaAlias) Resolucion {
	claves := make([]string, len(encabezados))
	for i, h := range encabezados {
		claves[i] = NormalizarClave(h)
	}

	res := Resolucion{Indices: make(map[Campo]int, len(tabla.Campos))}
	usadas := make(map[int]bool, len(encabezados))

	for _, a := range tabla.Campos {
		variantes := make(map[string]bool, len(a.Variantes))
		for _, v := range a.Variantes {
			variantes[NormalizarClave(v)] = true
		}
		for i, k := range claves {
			if !usadas[i] && variantes[k] {
				res.Indices[a.Campo] = i
				usadas[i] = true
				break
			}
		}
	}

	for _, a := range tabla.Campos {
		if res.Tiene(a.Campo) || a.Contiene == "" {
			continue
		}
		token := NormalizarClave(a.Contiene)
		for i, k := range claves {
			if !usadas[i] && k != "" && strings.Contains(k, token) {
				res.Indices[a.Campo] = i
				usadas[i] = true
				break
			}
		}
	}

	for _, a := range tabla.Campos {
		if !res.Tiene(a.Campo) {
			res.Faltantes = append(res.Faltantes, a.Campo)
		}
	}
	return res
}
