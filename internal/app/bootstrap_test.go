package app

import (
	"context"
	"errors"
	"testing"

	"github.com/andresuchdata/stockwise/internal/config"
	"github.com/andresuchdata/stockwise/internal/llm"
	"github.com/andresuchdata/stockwise/internal/repository/postgres"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MemoryStore(t *testing.T) {
	cfg := &config.Config{
		Database:  config.DatabaseConfig{Driver: DriverMemory},
		Storage:   config.StorageConfig{Prefix: "reports"},
		Inventory: config.InventoryConfig{LowStockThreshold: 5, UnitCost: decimal.RequireFromString("10.10")},
		App:       config.AppConfig{DataDir: t.TempDir()},
	}

	ctx := context.Background()
	a, err := Open(ctx, cfg, postgres.DriverPQ)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	require.NotNil(t, a.Objects)

	_, err = a.LLM.Generate(ctx, "system", "prompt")
	assert.True(t, errors.Is(err, llm.ErrUnavailable))

	_, err = a.Inventory.CreateSKU(ctx, service.CreateSKUInput{Name: "Bolt", UnitOfMeasure: "pcs", InitialStock: 4})
	require.NoError(t, err)

	metrics, err := a.Reports.DashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.TotalActiveSKUs)
	assert.Equal(t, 1, metrics.LowStockItemsCount)
	assert.Equal(t, "40.4", metrics.TotalInventoryValueEstimated.String())

	key, err := a.Reports.Export(ctx, service.ReportCSV)
	require.NoError(t, err)
	assert.Contains(t, key, "reports/stockwise_report_")
}

func TestOpenDrive_RequiresCredentials(t *testing.T) {
	_, err := OpenDrive(context.Background(), &config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DRIVE_CREDENTIALS_FILE")
}
