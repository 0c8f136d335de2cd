package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/avnordli/matchcast/internal/gateway"
	"github.com/avnordli/matchcast/internal/ingest"
	"github.com/avnordli/matchcast/internal/playback"
	"github.com/avnordli/matchcast/internal/simulate"
	"github.com/avnordli/matchcast/internal/timeline"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if getEnv("LOG_LEVEL", "info") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := loadConfig(getEnv("MATCHCAST_CONFIG", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := timeline.NewStore(cfg.sessionConfig())
	clock := clockwork.NewRealClock()
	coordinator := playback.NewCoordinator(store, clock, cfg.playbackConfig())

	script := simulate.DefaultScript()
	if cfg.Match.Script != "" {
		script, err = simulate.LoadScript(cfg.Match.Script)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Match.Script).Msg("Failed to load match script")
		}
	}
	match := simulate.NewMatchSimulator(store, clock, script)
	if cfg.Match.Preload {
		match.Preload()
	} else {
		go func() {
			if err := match.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Match simulator stopped")
			}
		}()
	}

	if cfg.Chat.Enabled {
		chat := simulate.NewChatSimulator(store, clock, cfg.chatConfig())
		go func() {
			if err := chat.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Chat simulator stopped")
			}
		}()
	}

	if cfg.Ingest.WebSocketURL != "" {
		source := ingest.NewWebSocketSource(store, clock, ingest.WebSocketConfig{URL: cfg.Ingest.WebSocketURL})
		go func() {
			if err := source.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("WebSocket ingest stopped")
			}
		}()
	}

	if cfg.Ingest.NATS.Enabled {
		source, err := ingest.NewNATSSource(store, cfg.natsConfig())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer source.Close()
		go func() {
			if err := source.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("NATS ingest stopped")
			}
		}()
	}

	manager := gateway.NewConnectionManager(coordinator, gateway.DefaultConnectionConfig())
	go manager.Start(ctx)

	go func() {
		if err := coordinator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Playback coordinator stopped")
		}
	}()

	handler := gateway.NewHandler(store, coordinator, manager)
	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(mux)

	port := getEnvAsInt("PORT", 8080)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h2c.NewHandler(corsHandler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", port).Msg("Starting matchcast server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
