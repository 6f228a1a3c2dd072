// Package csvreports wires the CSV exporter against the analytical database
// for ad-hoc report runs.
package csvreports

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/opstream/ordersync/pkg/db/warehouse"
	"github.com/opstream/ordersync/pkg/logging"
	"github.com/opstream/ordersync/pkg/reports"
	"github.com/opstream/ordersync/pkg/utils"
)

type App struct {
	Warehouse *warehouse.DB
	Exporter  *reports.Exporter
	Logger    *zap.Logger
}

// Initialize connects the analytical database and builds the exporter.
// An empty outDir falls back to OUTPUT_DIRECTORY.
func Initialize(ctx context.Context, outDir string, limit int) *App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	warehouseDb, err := warehouse.NewReadOnly(ctx, logger)
	if err != nil {
		logger.Fatal("Unable to connect to analytical database", zap.Error(err))
	}

	if outDir == "" {
		outDir = utils.Env("OUTPUT_DIRECTORY", "./reports")
	}

	return &App{
		Warehouse: warehouseDb,
		Exporter: &reports.Exporter{
			Logger: logger,
			Store:  warehouseDb,
			OutDir: outDir,
			Limit:  limit,
		},
		Logger: logger,
	}
}

// Run exports the requested report, or every report for "all".
func (a *App) Run(ctx context.Context, name string) error {
	if name == "" || name == "all" {
		paths, err := a.Exporter.ExportAll(ctx)
		if err != nil {
			a.Logger.Error("Report export failed", zap.Error(err))
			return err
		}
		a.Logger.Info("Reports exported", zap.Strings("files", paths))
		return nil
	}

	canonical, ok := reports.Resolve(name)
	if !ok {
		err := fmt.Errorf("unknown report %q, expected all, %s", name, strings.Join(reports.AliasNames(), ", "))
		a.Logger.Error("Report export failed", zap.Error(err))
		return err
	}

	path, err := a.Exporter.Export(ctx, canonical)
	if err != nil {
		a.Logger.Error("Report export failed", zap.String("report", canonical), zap.Error(err))
		return err
	}
	if path != "" {
		a.Logger.Info("Report exported", zap.String("file", path))
	}
	return nil
}

// Close releases the database connection.
func (a *App) Close() {
	_ = a.Warehouse.Close()
}
