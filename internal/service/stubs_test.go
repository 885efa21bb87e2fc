package service

import (
	"context"
	"strings"

	"jumboscan/internal/model"

	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

type stubUsuarioRepo struct {
	users  map[string]*model.Usuario
	nextID uint
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.nextID++
	u.ID = r.nextID
	r.users[u.Email] = u
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	u, ok := r.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uint) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubProductoRepo struct {
	productos []model.Producto
	llamadas  int
}

func (r *stubProductoRepo) BuscarPorCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	r.llamadas++
	for i := range r.productos {
		if r.productos[i].EAN == codigo || r.productos[i].SAP == codigo {
			return &r.productos[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) Buscar(_ context.Context, texto string, limite int) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if strings.Contains(p.Nombre, strings.ToUpper(texto)) && len(out) < limite {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Contar(context.Context) (int64, error) {
	return int64(len(r.productos)), nil
}
func (r *stubProductoRepo) ReemplazarTx(*gorm.DB, []model.Producto) error { return nil }
func (r *stubProductoRepo) DB() *gorm.DB                                   { return nil }

type stubVencimientoRepo struct {
	vs []model.Vencimiento
}

func (r *stubVencimientoRepo) Listar(context.Context) ([]model.Vencimiento, error) {
	return r.vs, nil
}

func (r *stubVencimientoRepo) BuscarPorEAN(_ context.Context, ean string) ([]model.Vencimiento, error) {
	var out []model.Vencimiento
	for _, v := range r.vs {
		if v.EAN == ean {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubVencimientoRepo) UpsertPorEAN(_ context.Context, v *model.Vencimiento, emailSistema string) (bool, error) {
	if v.EAN != model.EANSinCodigo {
		for i := len(r.vs) - 1; i >= 0; i-- {
			if r.vs[i].EAN == v.EAN && r.vs[i].UsuarioEmail != emailSistema {
				v.ID = r.vs[i].ID
				r.vs[i] = *v
				return false, nil
			}
		}
	}
	v.ID = uint(len(r.vs) + 1)
	r.vs = append(r.vs, *v)
	return true, nil
}

func (r *stubVencimientoRepo) Contar(context.Context) (int64, error) { return int64(len(r.vs)), nil }
func (r *stubVencimientoRepo) ContarPorUsuario(_ context.Context, email string) (int64, error) {
	var n int64
	for _, v := range r.vs {
		if v.UsuarioEmail == email {
			n++
		}
	}
	return n, nil
}
func (r *stubVencimientoRepo) EliminarDeUsuarioTx(*gorm.DB, string) (int64, error) { return 0, nil }
func (r *stubVencimientoRepo) CrearLoteTx(*gorm.DB, []model.Vencimiento) error      { return nil }
