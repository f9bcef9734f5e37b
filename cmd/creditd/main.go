package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumibank/credit-service/internal/application/usecase"
	"github.com/lumibank/credit-service/internal/domain/service"
	"github.com/lumibank/credit-service/internal/infrastructure/config"
	"github.com/lumibank/credit-service/internal/infrastructure/messaging"
	pgrepo "github.com/lumibank/credit-service/internal/infrastructure/persistence/postgres"
	grpcpresentation "github.com/lumibank/credit-service/internal/presentation/grpc"
	"github.com/lumibank/credit-service/internal/presentation/rest"
	"github.com/lumibank/credit-service/pkg/auth"
	pkgkafka "github.com/lumibank/credit-service/pkg/kafka"
	"github.com/lumibank/credit-service/pkg/observability"
	pkgpostgres "github.com/lumibank/credit-service/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	logger.Info("starting credit-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), "file://./migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	customerRepo := pgrepo.NewCustomerRepo(pool)
	loanRepo := pgrepo.NewLoanRepo(pool)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer kafkaProducer.Close() //nolint:errcheck // best-effort shutdown
	publisher := messaging.NewKafkaEventPublisher(kafkaProducer, logger)

	// Domain engines.
	scorer := service.NewCreditScoreEngine()
	engine := service.NewEligibilityEngine(scorer)

	// Wire use cases.
	registerUC := usecase.NewRegisterCustomerUseCase(customerRepo, publisher)
	checkUC := usecase.NewCheckEligibilityUseCase(customerRepo, loanRepo, engine, time.Now)
	createUC := usecase.NewCreateLoanUseCase(customerRepo, loanRepo, publisher, engine, time.Now)
	getLoanUC := usecase.NewGetLoanUseCase(customerRepo, loanRepo)
	listLoansUC := usecase.NewListCustomerLoansUseCase(customerRepo, loanRepo)

	// JWT validation for the gRPC surface.
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	})
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck
	decisionMetrics := observability.NewDecisionMetrics(cfg.ServiceName)

	// gRPC server.
	handler := grpcpresentation.NewCreditHandler(registerUC, checkUC, createUC, getLoanUC, listLoansUC,
		decisionMetrics, logger)
	grpcServer := grpcpresentation.NewServer(handler, logger, jwtSvc)

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(pool, logger)
	healthHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-service stopped")
}
