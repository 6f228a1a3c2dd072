// Package syncd wires the sync engine into a runnable daemon: both database
// clients, the durable watermark, the polling loop and the operational HTTP
// server.
package syncd

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/opstream/ordersync/pkg/db/source"
	"github.com/opstream/ordersync/pkg/db/warehouse"
	"github.com/opstream/ordersync/pkg/logging"
	"github.com/opstream/ordersync/pkg/notify"
	"github.com/opstream/ordersync/pkg/syncer"
	"github.com/opstream/ordersync/pkg/utils"
)

// App owns every long-lived resource of the sync daemon.
type App struct {
	Source    *source.DB
	Warehouse *warehouse.DB

	Engine *syncer.Engine

	// Interval is the continuous-mode polling period, from
	// POLLING_INTERVAL_SECONDS. One-shot runs ignore it.
	Interval time.Duration

	// Notify publishes iteration events when Redis is enabled, nil otherwise.
	Notify *notify.Client

	Logger *zap.Logger
	Server *http.Server
}

// Initialize connects both databases, ensures the analytics schema exists and
// seeds the extraction cursor from the durable watermark.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	sourceDb, err := source.New(ctx, logger)
	if err != nil {
		logger.Fatal("Unable to connect to source database", zap.Error(err))
	}

	warehouseDb, err := warehouse.New(ctx, logger)
	if err != nil {
		logger.Fatal("Unable to connect to analytical database", zap.Error(err))
	}

	if initErr := warehouseDb.InitializeDB(ctx); initErr != nil {
		logger.Fatal("Unable to initialize analytics schema", zap.Error(initErr))
	}

	mark, err := warehouseDb.ReadWatermark(ctx)
	if err != nil {
		logger.Fatal("Unable to read sync watermark", zap.Error(err))
	}
	if !mark.IsZero() {
		logger.Info("Resuming from persisted watermark", zap.Time("watermark", mark))
	}

	app := &App{
		Source:    sourceDb,
		Warehouse: warehouseDb,
		Engine:    syncer.NewEngine(logger, sourceDb, warehouseDb, syncer.NewTracker(mark)),
		Interval:  time.Duration(utils.EnvInt("POLLING_INTERVAL_SECONDS", 0)) * time.Second,
		Logger:    logger,
	}

	if notify.Enabled() {
		client, notifyErr := notify.NewClient(ctx, logger)
		if notifyErr != nil {
			logger.Warn("Failed to initialize Redis client - iteration events will be disabled",
				zap.Error(notifyErr))
		} else {
			app.Notify = client
			app.Engine.Notifier = client
		}
	}

	return app
}

// RunOnce executes a single sync cycle.
func (a *App) RunOnce(ctx context.Context) error {
	_, err := a.Engine.RunOnce(ctx)
	if err != nil {
		a.Logger.Error("Sync failed", zap.Error(err))
	}
	return err
}

// Start runs the HTTP server and the polling loop until ctx is canceled,
// then shuts both down. POLLING_INTERVAL_SECONDS must be set for this mode.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()

	if err := a.Engine.Run(ctx, a.Interval); err != nil {
		a.Logger.Fatal("Sync loop failed to start", zap.Error(err))
	}

	_ = a.Server.Close()
	a.Logger.Info("Shutting down")
	a.Close()
}

// Close releases every connection the app holds.
func (a *App) Close() {
	if a.Notify != nil {
		_ = a.Notify.Close()
	}
	_ = a.Source.Close()
	_ = a.Warehouse.Close()
}
