package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vehicle-market/internal/config"
	"vehicle-market/internal/events"
	"vehicle-market/internal/ledger"
	"vehicle-market/internal/logging"
	"vehicle-market/internal/store"
	httptransport "vehicle-market/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore := openStore(ctx, cfg.Server)
	defer closeStore()

	pub := openPublisher(cfg.Server)
	defer pub.Close()

	svc := ledger.NewService(st, pub, ledger.Options{AllowNegative: cfg.Server.AllowNegative})
	if cfg.Server.SeedPlayers {
		if err := svc.SeedPlayers(ctx, ledger.DefaultSeeds); err != nil {
			log.Fatal().Err(err).Msg("seed players failed")
		}
	}

	router := httptransport.NewRouter(svc, cfg.Server)
	httptransport.LogRoutes(router)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.HTTPAddr).
			Str("store", cfg.Server.Store).
			Bool("allow_negative", cfg.Server.AllowNegative).
			Msg("ledger server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
		log.Info().Msg("server stopped")
	}
}

func openStore(ctx context.Context, cfg config.ServerConfig) (ledger.Store, func()) {
	if cfg.Store == config.StoreMemory {
		log.Warn().Msg("using in-memory store; balances are lost on restart")
		mem := store.NewMemoryStore()
		return mem, mem.Close
	}

	if cfg.AutoMigrate {
		if err := store.Migrate(cfg.PostgresDSN); err != nil {
			log.Fatal().Err(err).Msg("apply migrations failed")
		}
	}
	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	return st, st.Close
}

func openPublisher(cfg config.ServerConfig) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Noop{}
	}
	log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing balance events to kafka")
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}
