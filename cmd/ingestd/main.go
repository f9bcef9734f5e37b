// Command ingestd loads the initial customer and loan workbooks into the
// database and exits. It is meant to run once against a fresh environment;
// reruns are safe because existing rows are left untouched.
package main

import (
	"context"
	"os"
	"time"

	"github.com/lumibank/credit-service/internal/infrastructure/config"
	"github.com/lumibank/credit-service/internal/infrastructure/ingest"
	pgrepo "github.com/lumibank/credit-service/internal/infrastructure/persistence/postgres"
	"github.com/lumibank/credit-service/pkg/observability"
	pkgpostgres "github.com/lumibank/credit-service/pkg/postgres"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	logger.Info("starting ingest",
		"customer_file", cfg.Ingest.CustomerFile,
		"loan_file", cfg.Ingest.LoanFile,
	)

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

	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), "file://./migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	ingester := ingest.NewIngester(
		pgrepo.NewCustomerRepo(pool),
		pgrepo.NewLoanRepo(pool),
		logger,
	)

	// Customers load first; loan rows for unknown customers are skipped.
	customers, err := ingester.IngestCustomers(ctx, cfg.Ingest.CustomerFile)
	if err != nil {
		logger.Error("customer ingest failed", "error", err)
		os.Exit(1)
	}

	loans, err := ingester.IngestLoans(ctx, cfg.Ingest.LoanFile)
	if err != nil {
		logger.Error("loan ingest failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingest complete",
		"customers_created", customers.Created,
		"customers_skipped", customers.Skipped,
		"loans_created", loans.Created,
		"loans_skipped", loans.Skipped,
	)
}
