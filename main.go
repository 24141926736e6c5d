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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"synergy-engine/config"
	httpLayer "synergy-engine/http"
	"synergy-engine/repository"
	"synergy-engine/service"
)

var (
	configPath string
	addrFlag   string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "synergy",
	Short: "Synergy Engine: numeric containment analysis with generated insights",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if addrFlag != "" {
			cfg.Server.Addr = addrFlag
		}
		if debug {
			cfg.Logging.Level = "debug"
		}

		logger, err := newLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "synergy.yaml", "path to the YAML config file")
	rootCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides config)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func newProvider(ctx context.Context, cfg config.InsightConfig, logger *zap.Logger) (service.Provider, error) {
	if cfg.Provider == "none" || cfg.APIKey == "" {
		logger.Warn("no insight API key configured", zap.String("provider", cfg.Provider))
		return nil, nil
	}

	switch cfg.Provider {
	case "openai":
		return service.NewOpenAIProvider(service.OpenAIConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxOutputTokens,
			Timeout:   cfg.Timeout,
		})
	default:
		return service.NewGeminiProvider(ctx, service.GeminiConfig{
			APIKey:          cfg.APIKey,
			Model:           cfg.Model,
			BaseURL:         cfg.BaseURL,
			MaxOutputTokens: int32(cfg.MaxOutputTokens),
			Timeout:         cfg.Timeout,
		})
	}
}

func newResultSlot(ctx context.Context, cfg config.SessionConfig, logger *zap.Logger) (repository.ResultSlot, func(), error) {
	if cfg.Store != "redis" {
		return repository.NewResultSlotMemory(), func() {}, nil
	}

	slot := repository.NewRedisResultSlot(cfg.RedisAddr, cfg.TTL)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := slot.Ping(pingCtx); err != nil {
		_ = slot.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("using redis result store", zap.String("addr", cfg.RedisAddr))
	return slot, func() { _ = slot.Close() }, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := newProvider(ctx, cfg.Insight, logger)
	if err != nil {
		return fmt.Errorf("create insight provider: %w", err)
	}
	if provider != nil {
		logger.Info("insight provider ready", zap.String("provider", provider.Name()))
	}

	slot, closeSlot, err := newResultSlot(ctx, cfg.Session, logger)
	if err != nil {
		return err
	}
	defer closeSlot()

	insightService := service.NewInsightService(provider, logger)
	sessions := service.NewSessionManager(insightService, slot, cfg.Session.IdleEviction, logger)
	defer sessions.Stop()

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	defer rateLimiter.Stop()

	// No WriteTimeout: a submission waits on the insight provider for as long as it takes.
	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     httpLayer.NewRouter(sessions, rateLimiter, logger),
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.Stringer("signal", sig))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownWait)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", zap.Error(err))
	}

	logger.Info("server exited")
	return nil
}
