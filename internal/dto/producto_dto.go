package dto

// ProductoResponse is the shape the scanning app renders after a lookup.
// Ubicacion carries the sheet's section column.
type ProductoResponse struct {
	Nombre    string `json:"nombre"`
	EAN       string `json:"ean"`
	SAP       string `json:"sap"`
	Precio    string `json:"precio"`
	Stock     string `json:"stock"`
	Ubicacion string `json:"ubicacion"`
	UMB       string `json:"umb"`
	ImagenURL string `json:"imagen_url"`
	Condicion string `json:"condicion"`
}
