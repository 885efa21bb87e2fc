package model

import "time"

// EANSinCodigo marks an alert entered without a barcode.
const EANSinCodigo = "S/C"

// Vencimiento is an expiration alert. Rows whose UsuarioEmail is the system
// address are regenerated by every import; the rest were entered by users.
type Vencimiento struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement"`
	EAN              string    `gorm:"column:ean"`
	NombreProducto   string    `gorm:"column:nombre_producto"`
	FechaVencimiento string    `gorm:"column:fecha_vencimiento"` // YYYY-MM-DD
	UsuarioEmail     string    `gorm:"column:usuario_email"`
	CreadoEn         time.Time `gorm:"column:creado_en;autoCreateTime"`
}

func (Vencimiento) TableName() string { return "vencimientos" }
