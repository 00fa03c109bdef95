package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/zaidnet/tagihan/internal/app"
	"github.com/zaidnet/tagihan/internal/config"
	tagihanHttp "github.com/zaidnet/tagihan/internal/http"
	billHandler "github.com/zaidnet/tagihan/internal/http/bill"
	catalogHandler "github.com/zaidnet/tagihan/internal/http/catalog"
	exportHandler "github.com/zaidnet/tagihan/internal/http/export"
	importHandler "github.com/zaidnet/tagihan/internal/http/imports"
	"github.com/zaidnet/tagihan/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// A nil *gsheet.Source must stay a nil interface.
	var sheets importHandler.SheetSource
	if a.Sheets != nil {
		sheets = a.Sheets
	}

	var (
		billsH   = billHandler.NewHandler(a.Bills, a.Composer)
		importH  = importHandler.NewHandler(a.Importer, a.Bills, sheets, cfg.Google.SpreadsheetID, cfg.Google.Range)
		catalogH = catalogHandler.NewHandler(a.Catalog)
		exportH  = exportHandler.NewHandler(a.Exporter, a.Bills)
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           tagihanHttp.New(billsH, importH, catalogH, exportH, cfg.Server.Timeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		a.Close()
		os.Exit(1)
	}

	slog.Info("server stopped")
}
