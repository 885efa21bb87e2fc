// cmd/seeduser: creates or resets a user so a fresh install can log in.
// Uso: SEED_EMAIL=jefa@tienda.cl SEED_PASSWORD=secreto go run ./cmd/seeduser
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"jumboscan/internal/config"
	"jumboscan/internal/infra"
	"jumboscan/internal/service"

	"github.com/rs/zerolog/log"
)

func env(clave, porDefecto string) string {
	if v := strings.TrimSpace(os.Getenv(clave)); v != "" {
		return v
	}
	return porDefecto
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	email := strings.ToLower(env("SEED_EMAIL", "admin@jumboscan.local"))
	password := env("SEED_PASSWORD", "1234")
	nombre := env("SEED_NOMBRE", "Admin Demo")

	hash, err := service.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	ctx := context.Background()
	if err := infra.AsegurarEsquema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("schema error")
	}

	// ON CONFLICT ... DO UPDATE is understood by both SQLite and PostgreSQL
	result := db.WithContext(ctx).Exec(`
		INSERT INTO usuarios (nombre, email, password_hash)
		VALUES (?, ?, ?)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    nombre = EXCLUDED.nombre
	`, nombre, email, hash)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert error")
	}
	fmt.Printf("Usuario '%s' creado/actualizado\n", email)
	for _, a := range cfg.Admins() {
		if a == email {
			return
		}
	}
	fmt.Println("Nota: el email no está en ADMIN_EMAILS; no podrá disparar importaciones")
}
