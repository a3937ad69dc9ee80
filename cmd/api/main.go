package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/coastal-erosion-api/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/coastal-erosion-api/internal/adapter/kafka"
	"github.com/couchcryptid/coastal-erosion-api/internal/adapter/mysql"
	"github.com/couchcryptid/coastal-erosion-api/internal/adapter/newsapi"
	"github.com/couchcryptid/coastal-erosion-api/internal/adapter/reportstore"
	"github.com/couchcryptid/coastal-erosion-api/internal/config"
	"github.com/couchcryptid/coastal-erosion-api/internal/observability"
	"github.com/couchcryptid/coastal-erosion-api/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	db, err := mysql.Open(mysql.PoolConfig{
		DSN:             cfg.DatabaseDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	gateway := mysql.NewGateway(db, metrics, logger)
	pingDatabase(gateway, logger)

	reports := newReportStore(cfg, db, logger)
	news := newsapi.NewClient(cfg.NewsAPIKey, cfg.NewsAPIURL, cfg.NewsLanguage, cfg.NewsAPITimeout, metrics, logger)
	if cfg.NewsAPIKey == "" {
		logger.Warn("NEWS_API_KEY not set; news searches will fail")
	}

	var publisher *kafkaadapter.Publisher
	var reportPublisher service.ReportPublisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, metrics, logger)
		reportPublisher = publisher
		logger.Info("event report publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportsTopic)
	} else {
		logger.Info("event report publishing disabled")
	}

	svc := service.New(gateway, news, reports, reportPublisher, metrics, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, cfg.CORSAllowedOrigins, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// pingDatabase logs whether the database is reachable. The API still starts
// when it is not; TestDbConnection and /readyz report the failure.
func pingDatabase(gateway *mysql.Gateway, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := gateway.Ping(ctx); err != nil {
		logger.Warn("database not reachable at startup", "error", err)
		return
	}
	logger.Info("database reachable")
}

func newReportStore(cfg *config.Config, db *sql.DB, logger *slog.Logger) service.ReportStore {
	if cfg.ReportStore == config.ReportStoreMemory {
		logger.Info("using in-memory event report store")
		return reportstore.NewMemoryStore()
	}
	return reportstore.NewSQLStore(db, logger)
}
