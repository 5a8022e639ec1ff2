package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/paulhq/paul-assistant/internal/config"
	"github.com/paulhq/paul-assistant/internal/handler"
	chatservice "github.com/paulhq/paul-assistant/internal/service/chat"
	"github.com/paulhq/paul-assistant/internal/service/completion"
	"github.com/paulhq/paul-assistant/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, continuing with system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		log = log.Level(level)
	} else {
		log.Warn().Str("level", cfg.Log.Level).Msg("unknown log level, keeping info")
	}

	conversationStore := newStore(cfg.Store, log)
	completionClient := completion.NewClient(cfg.Completion, conversationStore, log)
	chatSvc := chatservice.NewService(conversationStore, completionClient, log)

	router := handler.NewRouter(handler.New(chatSvc, log))

	startServer(ctx, cfg.Server, router, log)
}

// newStore selects the storage backend. SQLite construction failure falls
// back to the file store so a broken volume never blocks startup.
func newStore(cfg config.StoreConfig, log zerolog.Logger) store.Store {
	switch cfg.Driver {
	case "memory":
		log.Info().Msg("using in-memory conversation store")
		return store.NewMemoryStore()
	case "sqlite":
		s, err := store.OpenSQLiteStore(cfg.Path, log)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Path).Msg("sqlite store unavailable, falling back to file store")
			return store.NewFileStore(cfg.Path+".json", log)
		}
		log.Info().Str("path", cfg.Path).Msg("using sqlite conversation store")
		return s
	default:
		log.Info().Str("path", cfg.Path).Msg("using file conversation store")
		return store.NewFileStore(cfg.Path, log)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("paul assistant backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
