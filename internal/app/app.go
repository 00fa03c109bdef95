// Package app wires configuration, storage and services for the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zaidnet/tagihan/internal/bill"
	billStore "github.com/zaidnet/tagihan/internal/bill/store"
	"github.com/zaidnet/tagihan/internal/catalog"
	catalogStore "github.com/zaidnet/tagihan/internal/catalog/store"
	"github.com/zaidnet/tagihan/internal/config"
	"github.com/zaidnet/tagihan/internal/database"
	"github.com/zaidnet/tagihan/internal/events/amqp"
	"github.com/zaidnet/tagihan/internal/export"
	"github.com/zaidnet/tagihan/internal/importer"
	"github.com/zaidnet/tagihan/internal/importer/gsheet"
	"github.com/zaidnet/tagihan/internal/notify"
)

type App struct {
	Config   *config.Config
	DB       *database.DB
	Bills    *bill.Service
	Catalog  *catalog.Service
	Importer *importer.Service
	Exporter *export.Service
	Composer *notify.Composer
	Sheets   *gsheet.Source // nil unless Google Sheets is configured

	publisher *amqp.Publisher
}

// New migrates the database, loads the ledger and connects optional
// integrations. A broker that cannot be reached disables events instead of
// failing startup.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	dialect, err := database.ParseDialect(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.ConnectionString()

	db, err := database.New(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	a := &App{Config: cfg, DB: db}

	var pub bill.Publisher

	if cfg.AMQP.URL != "" {
		p, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey)
		if err != nil {
			slog.Warn("bill events disabled", "error", err)
		} else {
			a.publisher = p
			pub = p
		}
	}

	ledger := bill.NewLedger(bill.WithDueAfter(cfg.Billing.DueAfter))

	a.Bills = bill.NewService(ledger, billStore.New(db), pub)
	a.Catalog = catalog.NewService(catalogStore.New(db))
	a.Importer = importer.NewService(importer.WithPackageResolver(a.Catalog))
	a.Exporter = export.NewService(a.Importer.Aliases())
	a.Composer = notify.NewComposer(cfg.Billing.Brand, cfg.Billing.CountryCode)

	if cfg.SheetsEnabled() {
		src, err := gsheet.NewFromCredentialsFile(ctx, cfg.Google.CredentialsFile)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to google sheets: %w", err)
		}

		a.Sheets = src
	}

	if err := a.Bills.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}

	slog.Info("ledger loaded",
		"driver", cfg.DB.Driver,
		"bills", a.Bills.Stats().TotalCustomers,
		"events", a.publisher != nil,
		"sheets", a.Sheets != nil)

	return a, nil
}

func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			slog.Error("failed to close event publisher", "error", err)
		}
	}

	if err := a.DB.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
