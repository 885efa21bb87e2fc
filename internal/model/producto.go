package model

// Producto is one catalogue row loaded from the product spreadsheet.
// The table is dropped and recreated on every import; Stock and Precio are kept
// as the text found in the sheet.
type Producto struct {
	EAN                  string `gorm:"column:ean;primaryKey"`
	SAP                  string `gorm:"column:sap"`
	Nombre               string `gorm:"column:nombre"`
	Seccion              string `gorm:"column:seccion"`
	Stock                string `gorm:"column:stock"`
	UMB                  string `gorm:"column:umb"`
	Precio               string `gorm:"column:precio"`
	ImagenURL            string `gorm:"column:imagen_url"`
	CondicionAlimentaria string `gorm:"column:condicion_alimentaria;default:Normal"`
}

func (Producto) TableName() string { return "productos" }
