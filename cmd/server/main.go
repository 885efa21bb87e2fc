package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"jumboscan/internal/config"
	"jumboscan/internal/handler"
	"jumboscan/internal/importer"
	"jumboscan/internal/infra"
	"jumboscan/internal/repository"
	"jumboscan/internal/router"
	"jumboscan/internal/service"
	"jumboscan/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const claveCandadoImport = "lock:importacion"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// pretty console in dev, JSON in production
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := infra.NewCacheProductos(rdb, cfg.CacheTTL)
	opts := importer.Opciones{
		EmailSistema: cfg.SystemEmail,
		Zona:         cfg.Location(),
		Invalidador:  cache,
	}
	if rdb != nil {
		opts.Candado = infra.NewRedisLock(rdb, claveCandadoImport, cfg.ImportLockTTL)
	}
	imp := importer.New(db, repository.NewProductoRepository(db), repository.NewVencimientoRepository(db), opts)

	// Startup import: the API comes up even if it fails, serving whatever the store already holds.
	if cfg.ImportOnStart {
		if _, err := imp.Run(ctx, cfg.ExcelPath); err != nil {
			log.Error().Err(err).Str("archivo", cfg.ExcelPath).Msg("startup import failed")
		}
	} else if err := infra.AsegurarEsquema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	// Queue only when Redis is there; a nil *Dispatcher must not reach the interface.
	var cola handler.Encolador
	disparar := func(ctx context.Context) error {
		_, err := imp.Run(ctx, cfg.ExcelPath)
		return err
	}
	if rdb != nil {
		dispatcher := worker.NewDispatcher(rdb)
		cola = dispatcher
		disparar = func(ctx context.Context) error {
			return dispatcher.EnqueueImportacion(ctx, cfg.ExcelPath)
		}
		worker.StartWorkerPool(ctx, rdb, &worker.WorkerHandlers{Importador: imp})
	}

	worker.NewWatcher(cfg.ExcelPath, cfg.ImportWatchInterval, disparar).Start(ctx)

	if cfg.DigestTo != "" {
		alertas := service.NewAlertaService(repository.NewVencimientoRepository(db), cfg.AlertThresholdDays, cfg.Location(), cfg.SystemEmail)
		digest := worker.NewDigestWorker(
			alertas,
			infra.NewMailer(cfg),
			infra.NewCircuitBreaker(infra.DefaultCBConfig()),
			destinatarios(cfg.DigestTo),
			cfg.DigestHour,
			cfg.Location(),
		)
		worker.StartDigestCron(ctx, digest)
	}

	r := router.New(router.Deps{
		Cfg:        cfg,
		DB:         db,
		RDB:        rdb,
		Cache:      cache,
		Importador: imp,
		Encolador:  cola,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // inline imports run inside the request
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("jumboscan API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

func destinatarios(s string) []string {
	var out []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
