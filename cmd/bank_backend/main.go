package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mamarbank/bank_backend/internal/core/ports"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/core/services"
	"github.com/mamarbank/bank_backend/internal/events"
	"github.com/mamarbank/bank_backend/internal/events/kafka"
	"github.com/mamarbank/bank_backend/internal/handlers"
	"github.com/mamarbank/bank_backend/internal/middleware"
	"github.com/mamarbank/bank_backend/internal/repositories/database/pgsql"
	"github.com/mamarbank/bank_backend/pkg/config"
	"github.com/mamarbank/bank_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	notifier, closeNotifier := buildNotifier(cfg, logger)
	defer closeNotifier()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, buildServices(dbPool, notifier))

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires the repositories and services behind their port
// interfaces.
func buildServices(dbPool *pgxpool.Pool, notifier ports.Notifier) *portssvc.ServiceContainer {
	accountRepo := pgsql.NewAccountRepository(dbPool)
	txnRepo := pgsql.NewTransactionRepository(dbPool, accountRepo)

	return &portssvc.ServiceContainer{
		Account:     services.NewAccountService(accountRepo),
		Transaction: services.NewTransactionService(accountRepo, txnRepo, notifier),
		Reporting:   services.NewReportingService(accountRepo, txnRepo),
	}
}

// buildNotifier returns the Kafka publisher when brokers are configured, a
// no-op otherwise. The returned func closes the publisher on shutdown.
func buildNotifier(cfg *config.Config, logger *slog.Logger) (ports.Notifier, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, notifications disabled")
		return events.NoopNotifier{}, func() {}
	}
	publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaNotificationTopic)
	logger.Info("Kafka notification publisher configured",
		slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaNotificationTopic))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Error closing Kafka publisher", slog.String("error", err.Error()))
		}
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory using a temporary database/sql connection over the pgx stdlib
// driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
