// cmd/importer: one-shot spreadsheet import, for cron jobs and first installs.
// Usage: importer [ruta]   (defaults to EXCEL_PATH)
// Prints the import report as JSON; exits 1 on failure.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"jumboscan/internal/config"
	"jumboscan/internal/importer"
	"jumboscan/internal/infra"
	"jumboscan/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	ruta := cfg.ExcelPath
	if len(os.Args) > 1 {
		ruta = os.Args[1]
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	opts := importer.Opciones{
		EmailSistema: cfg.SystemEmail,
		Zona:         cfg.Location(),
		Invalidador:  infra.NewCacheProductos(rdb, cfg.CacheTTL),
	}
	// shares the lock with running API instances
	if rdb != nil {
		opts.Candado = infra.NewRedisLock(rdb, "lock:importacion", cfg.ImportLockTTL)
	}
	imp := importer.New(db, repository.NewProductoRepository(db), repository.NewVencimientoRepository(db), opts)

	rep, runErr := imp.Run(context.Background(), ruta)
	if rep != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(rep)
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("import failed")
		os.Exit(1)
	}
}
