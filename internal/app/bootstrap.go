// Package app wires configuration into stores, clients and services for the
// server and the CLI.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/stockwise/internal/analytics"
	"github.com/andresuchdata/stockwise/internal/cache"
	"github.com/andresuchdata/stockwise/internal/config"
	"github.com/andresuchdata/stockwise/internal/drive"
	"github.com/andresuchdata/stockwise/internal/ingest"
	"github.com/andresuchdata/stockwise/internal/llm"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/andresuchdata/stockwise/internal/repository/memory"
	"github.com/andresuchdata/stockwise/internal/repository/postgres"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/andresuchdata/stockwise/internal/storage"
	"github.com/rs/zerolog/log"
)

const DriverMemory = "memory"

// App holds everything a process needs. Close releases what Open acquired.
type App struct {
	Config  *config.Config
	Store   repository.Store
	DB      *postgres.DB
	Cache   cache.DashboardCache
	LLM     llm.Client
	Objects storage.ObjectStorage

	Inventory   *service.InventoryService
	Sales       *service.SalesService
	Procurement *service.ProcurementService
	Insights    *service.InsightService
	Reports     *service.ReportService
	Importer    *ingest.Importer

	closers []func() error
}

// Open builds the application. sqlDriver is the database/sql driver used for
// PostgreSQL (postgres.DriverPQ or postgres.DriverPGX).
func Open(ctx context.Context, cfg *config.Config, sqlDriver string) (*App, error) {
	a := &App{Config: cfg}

	if err := a.openStore(ctx, sqlDriver); err != nil {
		a.Close()
		return nil, err
	}

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard cache disabled")
		dashboardCache = cache.NewNoopDashboardCache()
	}
	a.Cache = dashboardCache

	client, closeLLM, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		log.Warn().Err(err).Msg("llm client unavailable")
		client = llm.Unavailable()
	} else if closeLLM != nil {
		a.closers = append(a.closers, closeLLM)
	}
	a.LLM = client

	objects, err := OpenObjectStorage(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("object storage unavailable, report exports disabled")
	} else {
		a.Objects = objects
	}

	a.buildServices()
	return a, nil
}

func (a *App) openStore(ctx context.Context, sqlDriver string) error {
	if a.Config.Database.Driver == DriverMemory {
		log.Warn().Msg("using in-memory store, data will not persist")
		a.Store = memory.NewStore()
		return nil
	}

	db, err := postgres.NewDB(sqlDriver, a.Config.Database)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, db.Close)
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}
	a.DB = db
	a.Store = postgres.NewStore(db)
	return nil
}

// OpenObjectStorage returns MinIO when storage is enabled and a local
// directory under the data dir otherwise.
func OpenObjectStorage(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, error) {
	if cfg.Storage.Enabled {
		return storage.NewMinioClient(ctx, cfg.Storage)
	}
	return storage.NewLocalStorage(filepath.Join(cfg.App.DataDir, "objects"))
}

// OpenDrive returns a Drive client from the configured credentials file.
func OpenDrive(ctx context.Context, cfg *config.Config) (*drive.Service, error) {
	if cfg.App.DriveCredentialsFile == "" {
		return nil, fmt.Errorf("DRIVE_CREDENTIALS_FILE is not set")
	}
	raw, err := os.ReadFile(cfg.App.DriveCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}
	return drive.NewService(ctx, raw)
}

func (a *App) buildServices() {
	cfg := a.Config
	store := a.Store

	metrics := analytics.DefaultMetricsOptions()
	if cfg.Inventory.LowStockThreshold > 0 {
		metrics.LowStockThreshold = cfg.Inventory.LowStockThreshold
	}
	if cfg.Inventory.UnitCost.IsPositive() {
		metrics.UnitCost = cfg.Inventory.UnitCost
	}

	a.Inventory = service.NewInventoryService(store.SKUs, a.Cache)
	a.Sales = service.NewSalesService(store.SKUs, store.Sales, a.Cache)
	a.Procurement = service.NewProcurementService(store.SKUs, store.Suppliers, store.Orders, a.Cache)
	a.Insights = service.NewInsightService(store.SKUs, store.Sales, store.Insights, a.LLM, a.Cache,
		service.InsightSettingsFromConfig(cfg.Inventory))
	a.Reports = service.NewReportService(store.SKUs, store.Sales, store.Insights, a.Cache, a.Objects,
		metrics, cfg.Storage.Prefix)
	a.Importer = ingest.NewImporter(a.Sales, 0)
}

// Close runs the registered closers in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}
