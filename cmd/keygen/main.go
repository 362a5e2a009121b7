package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/delphi-works/oracle/internal/config"
	"github.com/delphi-works/oracle/internal/database"
	"github.com/delphi-works/oracle/migrations"
)

// keygen mints a new API key and prints it once. The database stores only
// the hashes, so the printed key cannot be recovered later.
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := migrations.Run(db.SQLDB()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	plainKey, key, err := database.NewAPIKeyRepository(db).CreateAPIKey(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create API key")
	}

	log.Info().Str("key_id", key.ID.String()).Msg("API key created")
	fmt.Println(plainKey)
}
