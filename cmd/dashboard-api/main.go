package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/api"
	"github.com/99minutos/employee-dashboard/internal/core/directory"
	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/ports"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/db/memory"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/db/mongo"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/http/handlers"
	"github.com/99minutos/employee-dashboard/internal/pkg/config"
	"github.com/99minutos/employee-dashboard/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Output:  os.Stdout,
		Service: "dashboard-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, checks, closeRepo, err := userRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open user repository")
	}
	defer closeRepo()

	accounts := directory.NewAccountService(repo, cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	seedAdmin(ctx, accounts, cfg, log)

	e := api.NewRouter(api.Deps{
		Accounts:  accounts,
		JWTSecret: cfg.Server.JWTSecret,
		Log:       log,
		Checks:    checks,
	})

	go func() {
		addr := ":" + cfg.Server.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting directory api")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("directory api stopped")
}

// userRepository picks MongoDB when MONGO_URI is set, otherwise an
// in-memory store that lives as long as the process.
func userRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserRepository, map[string]handlers.Check, func(), error) {
	if cfg.Mongo.URI == "" {
		log.Warn().Msg("MONGO_URI not set, accounts are kept in memory")
		return memory.NewUserRepository(), nil, func() {}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, nil, err
	}
	repo := mongo.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, nil, err
	}

	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}
	checks := map[string]handlers.Check{"mongo": mongo.Check(db)}
	return repo, checks, closeFn, nil
}

func seedAdmin(ctx context.Context, accounts *directory.AccountService, cfg *config.Config, log zerolog.Logger) {
	_, err := accounts.Register(ctx, domain.User{
		FirstName:   "Admin",
		LastName:    "User",
		Email:       cfg.Server.SeedAdminEmail,
		Phone:       "0000000000",
		DateOfBirth: "1970-01-01",
		Role:        domain.RoleAdmin,
		Password:    cfg.Server.SeedAdminPassword,
	})
	switch {
	case err == nil:
		log.Info().Str("email", cfg.Server.SeedAdminEmail).Msg("seeded admin account")
	case errors.Is(err, domain.ErrUserExists):
		log.Debug().Str("email", cfg.Server.SeedAdminEmail).Msg("admin account already present")
	default:
		log.Error().Err(err).Msg("failed to seed admin account")
	}
}
