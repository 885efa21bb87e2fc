package service

import (
	"context"
	"errors"
	"strings"

	"jumboscan/internal/dto"
	"jumboscan/internal/infra"
	"jumboscan/internal/model"
	"jumboscan/internal/repository"

	"gorm.io/gorm"
)

var ErrProductoNoEncontrado = errors.New("producto no encontrado")

const limiteBusqueda = 50

type ProductoService interface {
	// ObtenerPorCodigo resolves a scanned EAN or a typed SAP code.
	ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	Buscar(ctx context.Context, texto string) ([]dto.ProductoResponse, error)
}

type productoService struct {
	repo  repository.ProductoRepository
	cache *infra.CacheProductos // nil disables caching
}

func NewProductoService(repo repository.ProductoRepository, cache *infra.CacheProductos) ProductoService {
	return &productoService{repo: repo, cache: cache}
}

func (s *productoService) ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	codigo = strings.TrimSpace(codigo)
	if codigo == "" {
		return nil, ErrProductoNoEncontrado
	}
	var gen infra.Generacion
	if s.cache != nil {
		gen = s.cache.Generacion(ctx)
		if p, ok := s.cache.Get(ctx, gen, codigo); ok {
			return p, nil
		}
	}

	p, err := s.repo.BuscarPorCodigo(ctx, codigo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductoNoEncontrado
	}
	if err != nil {
		return nil, err
	}

	resp := productoToResponse(p)
	if s.cache != nil {
		s.cache.Set(ctx, gen, codigo, resp)
	}
	return resp, nil
}

func (s *productoService) Buscar(ctx context.Context, texto string) ([]dto.ProductoResponse, error) {
	texto = strings.TrimSpace(texto)
	out := []dto.ProductoResponse{}
	if texto == "" {
		return out, nil
	}
	ps, err := s.repo.Buscar(ctx, texto, limiteBusqueda)
	if err != nil {
		return nil, err
	}
	for i := range ps {
		out = append(out, *productoToResponse(&ps[i]))
	}
	return out, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	condicion := p.CondicionAlimentaria
	if condicion == "" {
		condicion = "Normal"
	}
	return &dto.ProductoResponse{
		Nombre:    p.Nombre,
		EAN:       p.EAN,
		SAP:       p.SAP,
		Precio:    p.Precio,
		Stock:     p.Stock,
		Ubicacion: p.Seccion,
		UMB:       p.UMB,
		ImagenURL: p.ImagenURL,
		Condicion: condicion,
	}
}
