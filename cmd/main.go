package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appconfig "github.com/fedutinova/medlens/internal/config"
	"github.com/fedutinova/medlens/internal/database"
	"github.com/fedutinova/medlens/internal/gateway"
	"github.com/fedutinova/medlens/internal/prompt"
	"github.com/fedutinova/medlens/internal/redis"
	"github.com/fedutinova/medlens/internal/repository"
	"github.com/fedutinova/medlens/internal/server"
	"github.com/fedutinova/medlens/internal/storage"
	httpapi "github.com/fedutinova/medlens/internal/transport/http"
	"github.com/fedutinova/medlens/internal/upload"
)

func setupLogger(cfg appconfig.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	cfg := appconfig.Load()
	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}
	slog.Info("starting medlens", "addr", cfg.HTTPAddr, "provider", cfg.AIProvider, "model", cfg.AIModel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageService, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "err", err)
		os.Exit(1)
	}
	slog.Info("storage initialized", "type", storage.GetStorageType(cfg))

	gw, err := gateway.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize AI gateway", "err", err)
		os.Exit(1)
	}
	defer gw.Close()

	prompts, err := prompt.LoadBuilder(cfg.PromptDir)
	if err != nil {
		slog.Error("failed to load prompt templates", "err", err)
		os.Exit(1)
	}

	handlers := &httpapi.Handlers{
		Gateway: gw,
		Uploads: upload.NewReceiver(storageService, cfg.MaxUploadBytes),
		Prompts: prompts,
		Config:  cfg,
	}

	if cfg.QuestionFilter {
		handlers.Filter = prompt.NewQuestionFilter()
		slog.Info("question filter enabled")
	}

	if cfg.RedisURL != "" {
		redisService, err := redis.New(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			slog.Error("failed to connect to Redis", "err", err)
			os.Exit(1)
		}
		defer redisService.Close()
		handlers.Cache = redisService
		slog.Info("response cache enabled", "ttl", cfg.CacheTTL)
	}

	if cfg.DatabaseURL != "" {
		db, err := database.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "err", err)
			os.Exit(1)
		}
		handlers.History = repository.New(db)
		slog.Info("analysis history enabled")
	}

	r := server.NewRouter(handlers)

	// writes may wait on the provider; only bound them when the provider is bounded
	var writeTimeout time.Duration
	if cfg.GatewayTimeout > 0 {
		writeTimeout = cfg.GatewayTimeout + 30*time.Second
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		slog.Info("Server is running", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
	slog.Info("shutting down")

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
	cancel()
}
