package infra

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the product store. A postgres:// URL selects PostgreSQL;
// anything else is treated as a SQLite file path (pure Go driver, no cgo).
// The tables themselves are created by AsegurarEsquema, not AutoMigrate: the
// DDL must match what the scanning app has always read.
func NewDatabase(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if esPostgres(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(sqliteDSN(dsn))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if esPostgres(dsn) {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	} else {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY inside the import transaction
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func esPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

type ddl struct{ descr, sqlite, postgres string }

func (d ddl) para(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return d.postgres
	}
	return d.sqlite
}

var tablasBase = []ddl{
	{"usuarios",
		`CREATE TABLE IF NOT EXISTS usuarios (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nombre TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS usuarios (
			id SERIAL PRIMARY KEY,
			nombre TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL)`},
	{"vencimientos",
		`CREATE TABLE IF NOT EXISTS vencimientos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ean TEXT,
			nombre_producto TEXT,
			fecha_vencimiento TEXT,
			usuario_email TEXT,
			creado_en TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`,
		`CREATE TABLE IF NOT EXISTS vencimientos (
			id SERIAL PRIMARY KEY,
			ean TEXT,
			nombre_producto TEXT,
			fecha_vencimiento TEXT,
			usuario_email TEXT,
			creado_en TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`},
	{"idx_vencimientos_ean",
		`CREATE INDEX IF NOT EXISTS idx_vencimientos_ean ON vencimientos (ean)`,
		`CREATE INDEX IF NOT EXISTS idx_vencimientos_ean ON vencimientos (ean)`},
}

const productosSQL = `CREATE TABLE IF NOT EXISTS productos (
	ean TEXT PRIMARY KEY,
	sap TEXT,
	nombre TEXT,
	seccion TEXT,
	stock TEXT,
	umb TEXT,
	precio TEXT,
	imagen_url TEXT,
	condicion_alimentaria TEXT DEFAULT 'Normal')`

var indicesProductos = []string{
	`CREATE INDEX IF NOT EXISTS idx_ean ON productos (ean)`,
	`CREATE INDEX IF NOT EXISTS idx_sap ON productos (sap)`,
	`CREATE INDEX IF NOT EXISTS idx_nombre ON productos (nombre)`,
}

// AsegurarEsquema creates every table the API reads if it does not exist yet.
// It is idempotent and never touches existing rows.
func AsegurarEsquema(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	for _, t := range tablasBase {
		if err := db.Exec(t.para(db)).Error; err != nil {
			return fmt.Errorf("schema %q: %w", t.descr, err)
		}
	}
	return CrearTablaProductos(db)
}

// CrearTablaProductos creates productos and its lookup indexes. Pass a
// transaction handle to make it part of an import.
func CrearTablaProductos(db *gorm.DB) error {
	if err := db.Exec(productosSQL).Error; err != nil {
		return fmt.Errorf("schema %q: %w", "productos", err)
	}
	for _, sql := range indicesProductos {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("index %q: %w", sql, err)
		}
	}
	return nil
}

// TablasPresentes reports which of the API tables are missing.
func TablasPresentes(db *gorm.DB) (faltantes []string) {
	for _, t := range []string{"productos", "usuarios", "vencimientos"} {
		if !db.Migrator().HasTable(t) {
			faltantes = append(faltantes, t)
		}
	}
	return faltantes
}
