package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/delphi-works/oracle/internal/agents"
	"github.com/delphi-works/oracle/internal/auth"
	"github.com/delphi-works/oracle/internal/config"
	"github.com/delphi-works/oracle/internal/database"
	"github.com/delphi-works/oracle/internal/handlers"
	"github.com/delphi-works/oracle/internal/llm"
	"github.com/delphi-works/oracle/internal/oracle"
	"github.com/delphi-works/oracle/internal/services"
	"github.com/delphi-works/oracle/internal/storage"
	"github.com/delphi-works/oracle/migrations"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Msg("Starting Oracle API")

	var visionRepo *database.VisionRepository
	var authService *auth.Service
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := migrations.Run(db.SQLDB()); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}

		visionRepo = database.NewVisionRepository(db)
		authService = auth.NewService(db)
	} else {
		log.Warn().Msg("DATABASE_URL not set; running without vision log or API key auth")
	}

	publisher, err := storage.NewPublisher(
		cfg.StorageEndpoint, cfg.StorageRegion, cfg.VisionsBucket,
		cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StoragePublicURL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object publisher")
	}

	llmClient := llm.NewClient(
		cfg.GeminiAPIKey,
		cfg.GeminiModelFlash, cfg.GeminiModelPro, cfg.GeminiModelImage,
		cfg.ImagenModel,
		cfg.GeminiAPIEndpoint,
	)

	visionAgent := agents.NewVisionAgent(llmClient)
	imageAgent := agents.NewImageAgent(llmClient)

	tool := oracle.NewVisionImageTool(imageAgent, publisher)
	pipeline := oracle.NewPipeline(visionAgent, tool)

	visionService := services.NewVisionService(pipeline, visionRepo, cfg.VisionTimeout)

	h := handlers.NewHandler(visionService)

	r := mux.NewRouter()
	r.HandleFunc("/", h.Index).Methods("GET")

	api := r.PathPrefix("/v1").Subrouter()
	if authService != nil {
		api.Use(authService.Middleware)
	}
	api.HandleFunc("/visions/ws", h.VisionsWS).Methods("GET")
	api.HandleFunc("/visions", h.CreateVision).Methods("POST")
	api.HandleFunc("/visions/{id}", h.GetVision).Methods("GET")
	api.HandleFunc("/visions", h.ListVisions).Methods("GET")

	srv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: vision runs are bounded by VisionTimeout and the
		// websocket endpoint holds its connection open.
		WriteTimeout: 0,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down API...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("API exited")
}
