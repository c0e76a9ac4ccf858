package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sonaljain01/Banking-Application/internal/accounts"
	"github.com/sonaljain01/Banking-Application/internal/auth"
	"github.com/sonaljain01/Banking-Application/internal/config"
	"github.com/sonaljain01/Banking-Application/internal/events/kafka"
	"github.com/sonaljain01/Banking-Application/internal/history"
	interfaces "github.com/sonaljain01/Banking-Application/internal/interfaces"
	"github.com/sonaljain01/Banking-Application/internal/ledger"
	"github.com/sonaljain01/Banking-Application/internal/server"
	"github.com/sonaljain01/Banking-Application/internal/storage/memory"
	"github.com/sonaljain01/Banking-Application/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, cleanup, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer cleanup()

	var publisher interfaces.EventPublisher
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(brokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("kafka publisher enabled", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("failed to configure token manager", zap.Error(err))
	}

	accountService := accounts.NewService(store, logger.With(zap.String("component", "AccountService")))
	engine := ledger.NewLedger(store, publisher, cfg.KafkaTopic, logger.With(zap.String("component", "Ledger")))
	reader := history.NewReader(store)

	srv := server.NewServer(accountService, engine, reader, tokens, logger.With(zap.String("component", "HTTPHandler")))
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openStore builds the configured BankStore; for postgres it also runs
// pending migrations before handing the store out.
func openStore(cfg *config.Config, logger *zap.Logger) (interfaces.BankStore, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		if err := runMigrations(cfg); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("connected to postgres", zap.String("db", cfg.DB.Name))
		return postgres.NewPostgresBankStore(db), func() { db.Close() }, nil
	default:
		logger.Info("using in-memory store")
		return memory.NewMemoryBankStore(), func() {}, nil
	}
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New(cfg.MigrationsPath, cfg.MigrationDSN())
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
