package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	LLM       LLMConfig
	Storage   StorageConfig
	Inventory InventoryConfig
	App       AppConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogFormat      string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Driver is "memory" to run without PostgreSQL.
	Driver string
}

// DSN returns a connection string usable by both lib/pq and pgx.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

type LLMConfig struct {
	APIKey string
	// CredentialsFile points at a service-account JSON used instead of an API key.
	CredentialsFile string
	Model           string
	TimeoutSeconds  int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string
}

type InventoryConfig struct {
	MinimumWeeklyDemand decimal.Decimal
	UnitCost            decimal.Decimal
	LowStockThreshold   int
	DefaultLeadTimeDays int
	DefaultSafetyStock  int
}

type AppConfig struct {
	DataDir string
	// DriveCredentialsFile enables the Google Drive import source.
	DriveCredentialsFile string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults(viper.GetViper())
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_DATA_DIR"))

		instance = fromViper(viper.GetViper())
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "stockwise")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_CREDENTIALS_FILE", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_TIMEOUT_SECONDS", 60)

	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "stockwise")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("STORAGE_PREFIX", "reports")

	v.SetDefault("INVENTORY_MIN_WEEKLY_DEMAND", defaultMinWeeklyDemand)
	v.SetDefault("INVENTORY_UNIT_COST", defaultUnitCost)
	v.SetDefault("INVENTORY_LOW_STOCK_THRESHOLD", 50)
	v.SetDefault("INVENTORY_DEFAULT_LEAD_TIME_DAYS", 7)
	v.SetDefault("INVENTORY_DEFAULT_SAFETY_STOCK", 50)

	v.SetDefault("APP_DATA_DIR", "./data")
	v.SetDefault("DRIVE_CREDENTIALS_FILE", "")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogFormat:      v.GetString("LOG_FORMAT"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:             v.GetBool("CACHE_ENABLED"),
			RedisURL:            v.GetString("REDIS_URL"),
			RedisHost:           v.GetString("REDIS_HOST"),
			RedisPort:           v.GetString("REDIS_PORT"),
			RedisPassword:       v.GetString("REDIS_PASSWORD"),
			RedisDB:             v.GetInt("REDIS_DB"),
			DashboardTTLSeconds: v.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
		},
		LLM: LLMConfig{
			APIKey:          v.GetString("GEMINI_API_KEY"),
			CredentialsFile: v.GetString("GEMINI_CREDENTIALS_FILE"),
			Model:           v.GetString("GEMINI_MODEL"),
			TimeoutSeconds:  v.GetInt("GEMINI_TIMEOUT_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
			Prefix:    v.GetString("STORAGE_PREFIX"),
		},
		Inventory: InventoryConfig{
			MinimumWeeklyDemand: getDecimal(v, "INVENTORY_MIN_WEEKLY_DEMAND", defaultMinWeeklyDemand),
			UnitCost:            getDecimal(v, "INVENTORY_UNIT_COST", defaultUnitCost),
			LowStockThreshold:   v.GetInt("INVENTORY_LOW_STOCK_THRESHOLD"),
			DefaultLeadTimeDays: v.GetInt("INVENTORY_DEFAULT_LEAD_TIME_DAYS"),
			DefaultSafetyStock:  v.GetInt("INVENTORY_DEFAULT_SAFETY_STOCK"),
		},
		App: AppConfig{
			DataDir:              v.GetString("APP_DATA_DIR"),
			DriveCredentialsFile: v.GetString("DRIVE_CREDENTIALS_FILE"),
		},
	}
}

const (
	defaultMinWeeklyDemand = "15"
	defaultUnitCost        = "25"
)

// getDecimal reads key as an exact decimal, falling back when the value is
// not a number.
func getDecimal(v *viper.Viper, key, fallback string) decimal.Decimal {
	raw := v.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("warning: invalid %s %q, using %s", key, raw, fallback)
		return decimal.RequireFromString(fallback)
	}
	return d
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
