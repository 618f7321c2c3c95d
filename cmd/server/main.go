// Command server starts the AI interviewer HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/smarthire/ai-interviewer/internal/adapter/ai/openai"
	httpserver "github.com/smarthire/ai-interviewer/internal/adapter/httpserver"
	"github.com/smarthire/ai-interviewer/internal/adapter/nlp/extract"
	"github.com/smarthire/ai-interviewer/internal/adapter/nlp/languagetool"
	"github.com/smarthire/ai-interviewer/internal/adapter/nlp/zeroshot"
	"github.com/smarthire/ai-interviewer/internal/adapter/observability"
	"github.com/smarthire/ai-interviewer/internal/adapter/repo/filestore"
	"github.com/smarthire/ai-interviewer/internal/adapter/repo/memstore"
	"github.com/smarthire/ai-interviewer/internal/adapter/repo/postgres"
	"github.com/smarthire/ai-interviewer/internal/adapter/repo/redisstore"
	"github.com/smarthire/ai-interviewer/internal/app"
	"github.com/smarthire/ai-interviewer/internal/config"
	"github.com/smarthire/ai-interviewer/internal/domain"
	"github.com/smarthire/ai-interviewer/internal/usecase"
)

func main() {
	// Local development convenience; absence of the file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	var ready app.Readiness

	// Transcript store: PostgreSQL when configured, JSON files otherwise.
	var transcripts domain.TranscriptStore
	if cfg.DBURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			slog.Error("db connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		transcripts = postgres.NewTranscriptRepo(pool)
		ready.DB = pool.Ping
		slog.Info("transcripts stored in postgres")
	} else {
		fs, err := filestore.New(cfg.TranscriptDir)
		if err != nil {
			slog.Error("transcript dir setup failed", slog.Any("error", err))
			os.Exit(1)
		}
		transcripts = fs
		slog.Info("transcripts stored as files", slog.String("dir", cfg.TranscriptDir))
	}

	// Session store: Redis when configured, process memory otherwise.
	var sessions domain.SessionRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		sessions = redisstore.New(rdb, cfg.SessionTTL)
		ready.Redis = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		slog.Info("sessions stored in redis", slog.String("addr", cfg.RedisAddr))
	} else {
		sessions = memstore.New()
		slog.Info("sessions stored in memory")
	}

	catalog, err := usecase.LoadCatalog(cfg.RoleCatalogPath)
	if err != nil {
		slog.Error("role catalog load failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("role catalog loaded", slog.Any("roles", catalog.RoleNames()))

	aiClient := openai.New(cfg)
	analyzer := usecase.NewAnalyzer(
		aiClient,
		languagetool.New(cfg),
		zeroshot.New(cfg),
		extract.New(),
	)
	interviews := usecase.NewSessionService(
		sessions,
		transcripts,
		aiClient,
		analyzer,
		usecase.NewPromptBuilder(catalog),
	)

	srv := httpserver.NewServer(cfg, interviews)
	handler := app.BuildRouter(cfg, srv, ready)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
