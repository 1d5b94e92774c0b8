package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Services    ServicesConfig
	Storage     StorageConfig
	Inventory   InventoryConfig
	Cart        CartConfig
	LogLevel    string
}

// ServicesConfig holds the base URLs of the backend REST services
type ServicesConfig struct {
	CatalogURL     string
	OrderURL       string
	InventoryURL   string
	AuthURL        string
	Timeout        time.Duration
	BreakerTimeout time.Duration
}

type StorageConfig struct {
	Driver   string
	Dir      string
	Redis    RedisConfig
	Database DatabaseConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds a lib/pq connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type InventoryConfig struct {
	ReorderLevel int
}

// CartConfig bounds the per-session carts the server keeps in memory
type CartConfig struct {
	CacheSize int
	CacheTTL  time.Duration
}

const (
	StorageDriverFile     = "file"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
)

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_DRIVER", StorageDriverFile)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	// Read from environment variables
	viper.AutomaticEnv()

	// .env is optional
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeout, err := getDurationOrViper("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	breakerTimeout, err := getDurationOrViper("BREAKER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	redisTTL, err := getDurationOrViper("REDIS_TTL", 0)
	if err != nil {
		return nil, err
	}
	redisDB, err := getIntOrViper("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	reorderLevel, err := getIntOrViper("REORDER_LEVEL", 20)
	if err != nil {
		return nil, err
	}
	cartCacheSize, err := getIntOrViper("CART_CACHE_SIZE", 10000)
	if err != nil {
		return nil, err
	}
	cartCacheTTL, err := getDurationOrViper("CART_CACHE_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Services: ServicesConfig{
			CatalogURL:     getEnvOrViper("CATALOG_URL", "http://localhost:8081/api"),
			OrderURL:       getEnvOrViper("ORDER_URL", "http://localhost:8082/api"),
			InventoryURL:   getEnvOrViper("INVENTORY_URL", "http://localhost:8083/api"),
			AuthURL:        getEnvOrViper("AUTH_URL", "http://localhost:8085/api/auth"),
			Timeout:        timeout,
			BreakerTimeout: breakerTimeout,
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnvOrViper("STORAGE_DRIVER", StorageDriverFile)),
			Dir:    getEnvOrViper("STORAGE_DIR", defaultStorageDir()),
			Redis: RedisConfig{
				Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrViper("REDIS_PASSWORD", ""),
				DB:       redisDB,
				TTL:      redisTTL,
			},
			Database: DatabaseConfig{
				Host:     getEnvOrViper("DB_HOST", "localhost"),
				Port:     getEnvOrViper("DB_PORT", "5432"),
				User:     getEnvOrViper("DB_USER", "postgres"),
				Password: getEnvOrViper("DB_PASSWORD", "postgres"),
				DBName:   getEnvOrViper("DB_NAME", "storefront"),
				SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
			},
		},
		Inventory: InventoryConfig{
			ReorderLevel: reorderLevel,
		},
		Cart: CartConfig{
			CacheSize: cartCacheSize,
			CacheTTL:  cartCacheTTL,
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	urls := map[string]string{
		"CATALOG_URL":   c.Services.CatalogURL,
		"ORDER_URL":     c.Services.OrderURL,
		"INVENTORY_URL": c.Services.InventoryURL,
		"AUTH_URL":      c.Services.AuthURL,
	}
	for key, val := range urls {
		if val == "" {
			return fmt.Errorf("%s is required", key)
		}
		if !strings.HasPrefix(val, "http://") && !strings.HasPrefix(val, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", key, val)
		}
	}

	switch c.Storage.Driver {
	case StorageDriverFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("STORAGE_DIR is required for the file driver")
		}
	case StorageDriverRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
	case StorageDriverPostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Inventory.ReorderLevel < 0 {
		return fmt.Errorf("REORDER_LEVEL must not be negative")
	}
	if c.Cart.CacheSize < 1 {
		return fmt.Errorf("CART_CACHE_SIZE must be at least 1")
	}
	if c.Cart.CacheTTL <= 0 {
		return fmt.Errorf("CART_CACHE_TTL must be positive")
	}
	return nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getIntOrViper(key string, defaultValue int) (int, error) {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return n, nil
}

func getDurationOrViper(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func defaultStorageDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "storefront"
	}
	return ".storefront"
}
