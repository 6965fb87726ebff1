package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "15", cfg.Inventory.MinimumWeeklyDemand.String())
	assert.Equal(t, "25", cfg.Inventory.UnitCost.String())
	assert.Equal(t, 50, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 7, cfg.Inventory.DefaultLeadTimeDays)
	assert.Equal(t, 50, cfg.Inventory.DefaultSafetyStock)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Storage.Enabled)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INVENTORY_UNIT_COST", "0.10")
	t.Setenv("INVENTORY_MIN_WEEKLY_DEMAND", "12.75")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-pro")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	cfg := fromViper(v)

	assert.True(t, decimal.RequireFromString("0.1").Equal(cfg.Inventory.UnitCost))
	assert.Equal(t, "0.1", cfg.Inventory.UnitCost.String())
	assert.Equal(t, "12.75", cfg.Inventory.MinimumWeeklyDemand.String())
	assert.Equal(t, "gemini-2.0-pro", cfg.LLM.Model)
}

func TestInvalidDecimalFallsBack(t *testing.T) {
	t.Setenv("INVENTORY_UNIT_COST", "cheap")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	cfg := fromViper(v)

	assert.Equal(t, "25", cfg.Inventory.UnitCost.String())
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=stock sslmode=disable", db.DSN())

	db.URL = "postgres://u:p@db/stock"
	assert.Equal(t, "postgres://u:p@db/stock", db.DSN())
}
