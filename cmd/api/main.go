package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/randpass/randpass-go/internal/config"
	"github.com/randpass/randpass-go/internal/handler"
	"github.com/randpass/randpass-go/internal/model"
	"github.com/randpass/randpass-go/internal/randomorg"
	"github.com/randpass/randpass-go/internal/repository"
	"github.com/randpass/randpass-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	store, db := openOptionStore(cfg)
	if db != nil {
		defer db.Close()
	}

	var remote service.RandomSource
	if cfg.RandomOrgEnabled {
		client, err := randomorg.NewClient(cfg.RandomOrgURL, cfg.RandomOrgQuotaLimit, cfg.RandomOrgTimeout)
		if err != nil {
			slog.Error("invalid random.org configuration", "error", err)
			os.Exit(1)
		}
		remote = client
	} else {
		slog.Info("random.org disabled, all passwords are generated locally")
	}

	settingsService := service.NewSettingsService(store)
	var genOpts []service.GeneratorOption
	if cfg.LocalExtraSpecial {
		genOpts = append(genOpts, service.WithLocalArgs(func(args service.LocalArgs, _ model.Settings) service.LocalArgs {
			args.ExtraSpecial = true
			return args
		}))
	}
	genService := service.NewGeneratorService(remote, cfg.RandomOrgTimeout, genOpts...)
	authService := service.NewAuthService(cfg.OperatorPasswordHash, cfg.JWTSecret, cfg.JWTExpiry)
	if cfg.OperatorPasswordHash == "" {
		slog.Warn("OPERATOR_PASSWORD_HASH not set, operator routes are unreachable")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	r := handler.NewRouter(ctx, handler.Routes{
		Generator:     handler.NewGeneratorHandler(settingsService, genService),
		Settings:      handler.NewSettingsHandler(settingsService),
		Auth:          handler.NewAuthHandler(authService),
		JWTSecret:     cfg.JWTSecret,
		GenerateRPS:   cfg.GenerateRPS,
		GenerateBurst: cfg.GenerateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// openOptionStore returns the configured settings store. A database that
// cannot be reached falls back to the in-memory store.
func openOptionStore(cfg config.Config) (service.OptionStore, *sql.DB) {
	if cfg.StoreDriver == repository.DriverMemory {
		return repository.NewMemoryOptionStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := repository.NewDB(ctx, cfg.StoreDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, settings kept in memory", "driver", cfg.StoreDriver, "error", err)
		return repository.NewMemoryOptionStore(), nil
	}

	repo, err := repository.NewOptionRepository(ctx, db, cfg.StoreDriver)
	if err != nil {
		db.Close()
		slog.Warn("options table unavailable, settings kept in memory", "error", err)
		return repository.NewMemoryOptionStore(), nil
	}
	return repo, db
}
