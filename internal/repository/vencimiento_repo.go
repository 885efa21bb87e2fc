package repository

import (
	"context"
	"errors"

	"jumboscan/internal/model"

	"gorm.io/gorm"
)

type VencimientoRepository interface {
	// Listar returns every alert ordered by expiration date.
	Listar(ctx context.Context) ([]model.Vencimiento, error)
	BuscarPorEAN(ctx context.Context, ean string) ([]model.Vencimiento, error)
	// UpsertPorEAN updates the newest manual alert with v.EAN or inserts v.
	// Rows owned by emailSistema are never touched; the import manages them.
	// Alerts without a barcode are always inserted. creado reports an insert.
	UpsertPorEAN(ctx context.Context, v *model.Vencimiento, emailSistema string) (creado bool, err error)
	Contar(ctx context.Context) (int64, error)
	ContarPorUsuario(ctx context.Context, email string) (int64, error)

	// Used inside the import transaction; callers must pass the tx instance
	EliminarDeUsuarioTx(tx *gorm.DB, email string) (int64, error)
	CrearLoteTx(tx *gorm.DB, alertas []model.Vencimiento) error
}

type vencimientoRepo struct{ db *gorm.DB }

func NewVencimientoRepository(db *gorm.DB) VencimientoRepository {
	return &vencimientoRepo{db: db}
}

func (r *vencimientoRepo) Listar(ctx context.Context) ([]model.Vencimiento, error) {
	var vs []model.Vencimiento
	err := r.db.WithContext(ctx).Order("fecha_vencimiento ASC, id ASC").Find(&vs).Error
	return vs, err
}

func (r *vencimientoRepo) BuscarPorEAN(ctx context.Context, ean string) ([]model.Vencimiento, error) {
	var vs []model.Vencimiento
	err := r.db.WithContext(ctx).Where("ean = ?", ean).Order("id ASC").Find(&vs).Error
	return vs, err
}

func (r *vencimientoRepo) UpsertPorEAN(ctx context.Context, v *model.Vencimiento, emailSistema string) (bool, error) {
	creado := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if v.EAN == "" || v.EAN == model.EANSinCodigo {
			creado = true
			return tx.Create(v).Error
		}

		var actual model.Vencimiento
		err := tx.Where("ean = ? AND usuario_email <> ?", v.EAN, emailSistema).Order("id DESC").First(&actual).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			creado = true
			return tx.Create(v).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&actual).Updates(map[string]any{
			"nombre_producto":   v.NombreProducto,
			"fecha_vencimiento": v.FechaVencimiento,
			"usuario_email":     v.UsuarioEmail,
		}).Error; err != nil {
			return err
		}
		v.ID = actual.ID
		v.CreadoEn = actual.CreadoEn
		return nil
	})
	return creado, err
}

func (r *vencimientoRepo) Contar(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Vencimiento{}).Count(&n).Error
	return n, err
}

func (r *vencimientoRepo) ContarPorUsuario(ctx context.Context, email string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Vencimiento{}).Where("usuario_email = ?", email).Count(&n).Error
	return n, err
}

func (r *vencimientoRepo) EliminarDeUsuarioTx(tx *gorm.DB, email string) (int64, error) {
	res := tx.Where("usuario_email = ?", email).Delete(&model.Vencimiento{})
	return res.RowsAffected, res.Error
}

func (r *vencimientoRepo) CrearLoteTx(tx *gorm.DB, alertas []model.Vencimiento) error {
	if len(alertas) == 0 {
		return nil
	}
	return tx.CreateInBatches(alertas, 500).Error
}
