package repository

import (
	"context"
	"strings"

	"jumboscan/internal/infra"
	"jumboscan/internal/model"

	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for the imported catalogue.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	// BuscarPorCodigo matches codigo against ean OR sap.
	BuscarPorCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	// Buscar returns up to limite products whose upper-cased name or SAP contains texto.
	Buscar(ctx context.Context, texto string, limite int) ([]model.Producto, error)
	Contar(ctx context.Context) (int64, error)

	// ReemplazarTx drops and rebuilds the table with productos; callers pass the tx.
	ReemplazarTx(tx *gorm.DB, productos []model.Producto) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) BuscarPorCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Where("ean = ? OR sap = ?", codigo, codigo).
		First(&p).Error
	return &p, err
}

func (r *productoRepo) Buscar(ctx context.Context, texto string, limite int) ([]model.Producto, error) {
	patron := "%" + strings.ToUpper(texto) + "%"
	var ps []model.Producto
	err := r.db.WithContext(ctx).
		Where("UPPER(nombre) LIKE ? OR sap LIKE ?", patron, patron).
		Order("nombre").
		Limit(limite).
		Find(&ps).Error
	return ps, err
}

func (r *productoRepo) Contar(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Count(&n).Error
	return n, err
}

func (r *productoRepo) ReemplazarTx(tx *gorm.DB, productos []model.Producto) error {
	if err := tx.Exec("DROP TABLE IF EXISTS productos").Error; err != nil {
		return err
	}
	if err := infra.CrearTablaProductos(tx); err != nil {
		return err
	}
	if len(productos) == 0 {
		return nil
	}
	return tx.CreateInBatches(productos, 500).Error
}
