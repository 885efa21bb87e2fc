// Package importer loads the product spreadsheet into the relational store and
// regenerates the system expiration alerts derived from it.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"jumboscan/internal/infra"
	"jumboscan/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Estado is a step of an import run.
type Estado string

const (
	EstadoNotStarted        Estado = "NotStarted"
	EstadoSchemaEnsured     Estado = "SchemaEnsured"
	EstadoSheetSelected     Estado = "SheetSelected"
	EstadoRowsExtracted     Estado = "RowsExtracted"
	EstadoRowsNormalized    Estado = "RowsNormalized"
	EstadoProductsPersisted Estado = "ProductsPersisted"
	EstadoAlertsRegenerated Estado = "AlertsRegenerated"
	EstadoDone              Estado = "Done"
	EstadoFailed            Estado = "Failed"
)

// Warning codes.
const (
	AdvArchivoFaltante = "FileMissing"
	AdvSinHojaMarcada  = "NoMatchingSheet"
	AdvColumnaFaltante = "MissingColumn"
	AdvEANDuplicado    = "DuplicateEAN"
)

const (
	FuenteCategoria = "categoria"
	FuenteNombre    = "nombre"
)

type Advertencia struct {
	Codigo  string `json:"codigo"`
	Detalle string `json:"detalle"`
}

// Reporte summarises one import run.
type Reporte struct {
	ID                  uuid.UUID     `json:"id"`
	Archivo             string        `json:"archivo"`
	Hoja                string        `json:"hoja"`
	FuenteClasificacion string        `json:"fuente_clasificacion"`
	ProductosCargados   int           `json:"productos_cargados"`
	AlertasGeneradas    int           `json:"alertas_generadas"`
	Advertencias        []Advertencia `json:"advertencias"`
	Estado              Estado        `json:"estado"`
	Inicio              time.Time     `json:"inicio"`
	Fin                 time.Time     `json:"fin"`
	Error               string        `json:"error,omitempty"`
}

func (r *Reporte) advertir(codigo, detalle string) {
	r.Advertencias = append(r.Advertencias, Advertencia{Codigo: codigo, Detalle: detalle})
	log.Warn().Str("import_id", r.ID.String()).Str("codigo", codigo).Msg(detalle)
}

// AlmacenProductos replaces the product table inside the import transaction.
type AlmacenProductos interface {
	ReemplazarTx(tx *gorm.DB, productos []model.Producto) error
}

// AlmacenVencimientos rewrites the system alerts inside the import transaction.
type AlmacenVencimientos interface {
	EliminarDeUsuarioTx(tx *gorm.DB, email string) (int64, error)
	CrearLoteTx(tx *gorm.DB, alertas []model.Vencimiento) error
}

// Candado is a cross-process lock; Adquirir must not wait.
type Candado interface {
	Adquirir(ctx context.Context) (func(context.Context) error, error)
}

// Invalidador drops caches that may hold products from the previous import.
type Invalidador interface {
	Invalidar(ctx context.Context) error
}

type Opciones struct {
	Alias        TablaAlias
	Marcadores   []string
	Reglas       []ReglaVencimiento
	EmailSistema string
	Zona         *time.Location
	Reloj        func() time.Time
	Candado      Candado     // optional
	Invalidador  Invalidador // optional
}

// Importer runs spreadsheet imports one at a time.
type Importer struct {
	db           *gorm.DB
	productos    AlmacenProductos
	vencimientos AlmacenVencimientos
	opts         Opciones
	clasificador *Clasificador

	mu sync.Mutex // held for the whole run

	ultimoMu sync.RWMutex
	ultimo   *Reporte
}

func New(db *gorm.DB, productos AlmacenProductos, vencimientos AlmacenVencimientos, opts Opciones) *Importer {
	if len(opts.Alias.Campos) == 0 {
		opts.Alias = AliasPorDefecto
	}
	if opts.Marcadores == nil {
		opts.Marcadores = MarcadoresHoja
	}
	if opts.Reglas == nil {
		opts.Reglas = ReglasVencimiento
	}
	if opts.EmailSistema == "" {
		opts.EmailSistema = "sistema@auto.local"
	}
	if opts.Zona == nil {
		opts.Zona = time.Local
	}
	if opts.Reloj == nil {
		opts.Reloj = time.Now
	}
	return &Importer{
		db:           db,
		productos:    productos,
		vencimientos: vencimientos,
		opts:         opts,
		clasificador: NewClasificador(opts.Reglas),
	}
}

// Ultimo returns the report of the most recent run, or nil.
func (imp *Importer) Ultimo() *Reporte {
	imp.ultimoMu.RLock()
	defer imp.ultimoMu.RUnlock()
	return imp.ultimo
}

// Run imports ruta. A run already in progress, here or in another process
// sharing the Candado, makes it return ErrImportEnCurso at once. On failure
// the returned report is still filled in and the store keeps its previous data.
func (imp *Importer) Run(ctx context.Context, ruta string) (*Reporte, error) {
	if !imp.mu.TryLock() {
		return nil, ErrImportEnCurso
	}
	defer imp.mu.Unlock()

	if imp.opts.Candado != nil {
		liberar, err := imp.opts.Candado.Adquirir(ctx)
		if errors.Is(err, infra.ErrCandadoOcupado) {
			return nil, ErrImportEnCurso
		}
		if err != nil {
			return nil, fmt.Errorf("import lock: %w", err)
		}
		defer func() {
			if err := liberar(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Msg("import: lock release failed")
			}
		}()
	}

	rep := &Reporte{
		ID:           uuid.New(),
		Archivo:      ruta,
		Estado:       EstadoNotStarted,
		Inicio:       imp.opts.Reloj(),
		Advertencias: []Advertencia{},
	}
	err := imp.ejecutar(ctx, ruta, rep)
	rep.Fin = imp.opts.Reloj()

	if err != nil {
		rep.Estado = EstadoFailed
		rep.Error = err.Error()
		log.Error().Err(err).Str("import_id", rep.ID.String()).Str("archivo", ruta).Msg("import: failed")
	} else {
		log.Info().
			Str("import_id", rep.ID.String()).
			Str("hoja", rep.Hoja).
			Str("fuente", rep.FuenteClasificacion).
			Int("productos", rep.ProductosCargados).
			Int("alertas", rep.AlertasGeneradas).
			Int("advertencias", len(rep.Advertencias)).
			Dur("duracion", rep.Fin.Sub(rep.Inicio)).
			Msg("import: done")
	}

	imp.ultimoMu.Lock()
	imp.ultimo = rep
	imp.ultimoMu.Unlock()
	return rep, err
}

func (imp *Importer) ejecutar(ctx context.Context, ruta string, rep *Reporte) error {
	if err := infra.AsegurarEsquema(ctx, imp.db); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	rep.Estado = EstadoSchemaEnsured

	if _, err := os.Stat(ruta); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			rep.advertir(AdvArchivoFaltante, fmt.Sprintf("%s not found; schema ensured, products untouched", ruta))
			rep.Estado = EstadoDone
			return nil
		}
		return fmt.Errorf("%w: %v", ErrArchivoIlegible, err)
	}

	libro, err := AbrirLibro(ruta)
	if err != nil {
		return err
	}
	defer libro.Close()

	sel, err := SeleccionarHoja(libro, imp.opts.Marcadores)
	if err != nil {
		return err
	}
	rep.Hoja = sel.Hoja
	if sel.Respaldo {
		rep.advertir(AdvSinHojaMarcada, fmt.Sprintf("no sheet has a marker header, using first sheet %q", sel.Hoja))
	}
	rep.Estado = EstadoSheetSelected

	filas, err := libro.Filas(sel.Hoja)
	if err != nil {
		return fmt.Errorf("%w: sheet %q: %v", ErrArchivoIlegible, sel.Hoja, err)
	}
	res := ResolverColumnas(sel.Encabezados, imp.opts.Alias)
	for _, c := range res.Faltantes {
		rep.advertir(AdvColumnaFaltante, fmt.Sprintf("no column for %q in sheet %q", c, sel.Hoja))
	}
	rep.Estado = EstadoRowsExtracted

	normalizadas := imp.normalizar(filas, res, rep)
	rep.Estado = EstadoRowsNormalized

	rep.FuenteClasificacion = FuenteNombre
	if res.Tiene(CampoCategoria) {
		rep.FuenteClasificacion = FuenteCategoria
	}
	productos, alertas := imp.construir(normalizadas, rep.FuenteClasificacion)

	err = imp.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := imp.productos.ReemplazarTx(tx, productos); err != nil {
			return err
		}
		rep.Estado = EstadoProductsPersisted

		if _, err := imp.vencimientos.EliminarDeUsuarioTx(tx, imp.opts.EmailSistema); err != nil {
			return err
		}
		if err := imp.vencimientos.CrearLoteTx(tx, alertas); err != nil {
			return err
		}
		rep.Estado = EstadoAlertsRegenerated
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistencia, err)
	}

	rep.ProductosCargados = len(productos)
	rep.AlertasGeneradas = len(alertas)
	rep.Estado = EstadoDone

	if imp.opts.Invalidador != nil {
		if err := imp.opts.Invalidador.Invalidar(ctx); err != nil {
			log.Warn().Err(err).Msg("import: cache invalidation failed")
		}
	}
	return nil
}

// normalizar cleans every row, drops padding rows and keeps the last row per EAN.
func (imp *Importer) normalizar(filas [][]string, res Resolucion, rep *Reporte) []FilaProducto {
	out := make([]FilaProducto, 0, len(filas))
	pos := make(map[string]int, len(filas))
	var duplicados []string

	for i, celdas := range filas {
		f := NormalizarFila(i+2, celdas, res)
		if f.Vacia() {
			continue
		}
		if j, ok := pos[f.EAN]; ok {
			duplicados = append(duplicados, fmt.Sprintf("%q (rows %d,%d)", f.EAN, out[j].Fila, f.Fila))
			out[j] = f
			continue
		}
		pos[f.EAN] = len(out)
		out = append(out, f)
	}

	if len(duplicados) > 0 {
		muestra := duplicados
		if len(muestra) > 5 {
			muestra = muestra[:5]
		}
		rep.advertir(AdvEANDuplicado, fmt.Sprintf("%d rows replaced an earlier row with the same EAN, e.g. %v", len(duplicados), muestra))
	}
	return out
}

func (imp *Importer) construir(filas []FilaProducto, fuente string) ([]model.Producto, []model.Vencimiento) {
	hoy := imp.opts.Reloj().In(imp.opts.Zona)
	productos := make([]model.Producto, 0, len(filas))
	var alertas []model.Vencimiento

	for _, f := range filas {
		productos = append(productos, model.Producto{
			EAN:       f.EAN,
			SAP:       f.SAP,
			Nombre:    f.Nombre,
			Seccion:   f.Seccion,
			Stock:     f.Stock,
			UMB:       f.UMB,
			Precio:    f.Precio,
			ImagenURL: f.ImagenURL,
		})

		texto := f.Nombre
		if fuente == FuenteCategoria && f.Categoria != "" {
			texto = f.Categoria
		}
		dias := imp.clasificador.DiasVida(texto)
		if dias <= 0 {
			continue
		}
		ean := f.EAN
		if ean == "" {
			ean = model.EANSinCodigo
		}
		alertas = append(alertas, model.Vencimiento{
			EAN:              ean,
			NombreProducto:   f.Nombre,
			FechaVencimiento: FechaVencimiento(hoy, dias),
			UsuarioEmail:     imp.opts.EmailSistema,
		})
	}
	return productos, alertas
}
