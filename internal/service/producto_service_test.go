package service

import (
	"context"
	"testing"
	"time"

	"jumboscan/internal/infra"
	"jumboscan/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObtenerPorCodigo_CachesLookups(t *testing.T) {
	repo := &stubProductoRepo{productos: []model.Producto{
		{EAN: "780", SAP: "100", Nombre: "LECHE", Seccion: "PASILLO 4"},
	}}
	svc := NewProductoService(repo, infra.NewCacheProductos(nil, time.Hour))
	ctx := context.Background()

	p, err := svc.ObtenerPorCodigo(ctx, "780")
	require.NoError(t, err)
	assert.Equal(t, "PASILLO 4", p.Ubicacion)
	assert.Equal(t, "Normal", p.Condicion)

	_, err = svc.ObtenerPorCodigo(ctx, "780")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.llamadas)

	p, err = svc.ObtenerPorCodigo(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "780", p.EAN)
}

// repoConImport simulates an import committing between the database read
// and the cache write of a lookup.
type repoConImport struct {
	*stubProductoRepo
	cache *infra.CacheProductos
	nuevo model.Producto
}

func (r *repoConImport) BuscarPorCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	p, err := r.stubProductoRepo.BuscarPorCodigo(ctx, codigo)
	if r.stubProductoRepo.llamadas == 1 {
		r.stubProductoRepo.productos = []model.Producto{r.nuevo}
		if err := r.cache.Invalidar(ctx); err != nil {
			return nil, err
		}
	}
	return p, err
}

func TestObtenerPorCodigo_ImportDuringLookupDoesNotCacheOldRow(t *testing.T) {
	cache := infra.NewCacheProductos(nil, time.Hour)
	repo := &repoConImport{
		stubProductoRepo: &stubProductoRepo{productos: []model.Producto{{EAN: "780", Nombre: "LECHE", Precio: "990"}}},
		cache:            cache,
		nuevo:            model.Producto{EAN: "780", Nombre: "LECHE", Precio: "1090"},
	}
	svc := NewProductoService(repo, cache)
	ctx := context.Background()

	p, err := svc.ObtenerPorCodigo(ctx, "780")
	require.NoError(t, err)
	assert.Equal(t, "990", p.Precio)

	p, err = svc.ObtenerPorCodigo(ctx, "780")
	require.NoError(t, err)
	assert.Equal(t, "1090", p.Precio)
	assert.Equal(t, 2, repo.llamadas)
}

func TestObtenerPorCodigo_NotFound(t *testing.T) {
	svc := NewProductoService(&stubProductoRepo{}, nil)
	_, err := svc.ObtenerPorCodigo(context.Background(), "000")
	assert.ErrorIs(t, err, ErrProductoNoEncontrado)

	_, err = svc.ObtenerPorCodigo(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrProductoNoEncontrado)
}

func TestBuscar_BlankReturnsEmpty(t *testing.T) {
	repo := &stubProductoRepo{productos: []model.Producto{{EAN: "1", Nombre: "QUESO"}}}
	svc := NewProductoService(repo, nil)

	out, err := svc.Buscar(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out, err = svc.Buscar(context.Background(), "que")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "QUESO", out[0].Nombre)
}
