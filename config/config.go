package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Rakuten   RakutenConfig   `mapstructure:"rakuten"`
	Yahoo     YahooConfig     `mapstructure:"yahoo"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RakutenConfig holds Rakuten Ichiba API configuration
type RakutenConfig struct {
	ApplicationID string `mapstructure:"application_id"`
	AffiliateID   string `mapstructure:"affiliate_id"`
	BaseURL       string `mapstructure:"base_url"`
}

// YahooConfig holds Yahoo! Shopping API configuration
type YahooConfig struct {
	AppID   string `mapstructure:"app_id"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type      string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL  string        `mapstructure:"redis_url"`
	MaxAge    time.Duration `mapstructure:"max_age"`
	Retention time.Duration `mapstructure:"retention"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP       int     `mapstructure:"per_ip"`      // requests per minute
	Marketplace float64 `mapstructure:"marketplace"` // requests per second per marketplace
}

// PipelineConfig holds search and ranking configuration
type PipelineConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	SourceTimeout  time.Duration `mapstructure:"source_timeout"`
	HitsPerSource  int           `mapstructure:"hits_per_source"`
	TypeMatchQuota int           `mapstructure:"type_match_quota"`
	OtherQuota     int           `mapstructure:"other_quota"`
}

// FilterConfig holds the validity filter thresholds
type FilterConfig struct {
	MinProteinGrams    float64 `mapstructure:"min_protein_grams"`
	MinPricePerServing int     `mapstructure:"min_price_per_serving"`
	MaxPricePerServing int     `mapstructure:"max_price_per_serving"`
	RequireReviews     bool    `mapstructure:"require_reviews"`
	RequireWeightToken bool    `mapstructure:"require_weight_token"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// HasRakuten reports whether Rakuten credentials are configured.
func (c *Config) HasRakuten() bool {
	return c.Rakuten.ApplicationID != ""
}

// HasYahoo reports whether Yahoo! Shopping credentials are configured.
func (c *Config) HasYahoo() bool {
	return c.Yahoo.AppID != ""
}

// Load loads configuration from .env, environment variables and config files
// and requires at least one marketplace credential.
func Load() (*Config, error) {
	config, err := LoadOffline()
	if err != nil {
		return nil, err
	}
	if err := validateMarketplaces(config); err != nil {
		return nil, eris.Wrap(err, "invalid configuration")
	}
	return config, nil
}

// LoadOffline loads configuration for runs that never call a marketplace.
func LoadOffline() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, eris.Wrap(err, "error loading .env file")
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/proteinfinder/")

	// PROTEINFINDER_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("PROTEINFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "error reading config file")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, eris.Wrap(err, "unable to decode config")
	}

	if err := validate(&config); err != nil {
		return nil, eris.Wrap(err, "invalid configuration")
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key gets a default so
// AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Marketplace defaults
	v.SetDefault("rakuten.application_id", "")
	v.SetDefault("rakuten.affiliate_id", "")
	v.SetDefault("rakuten.base_url", "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601")
	v.SetDefault("yahoo.app_id", "")
	v.SetDefault("yahoo.base_url", "https://shopping.yahooapis.jp/ShoppingWebService/V3/itemSearch")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.max_age", "6h")
	v.SetDefault("cache.retention", "72h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.marketplace", 1.0)

	// Pipeline defaults
	v.SetDefault("pipeline.page_size", 10)
	v.SetDefault("pipeline.source_timeout", "8s")
	v.SetDefault("pipeline.hits_per_source", 30)
	v.SetDefault("pipeline.type_match_quota", 6)
	v.SetDefault("pipeline.other_quota", 4)

	// Filter defaults
	v.SetDefault("filter.min_protein_grams", 8.0)
	v.SetDefault("filter.min_price_per_serving", 20)
	v.SetDefault("filter.max_price_per_serving", 500)
	v.SetDefault("filter.require_reviews", false)
	v.SetDefault("filter.require_weight_token", true)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

func validateMarketplaces(config *Config) error {
	if !config.HasRakuten() && !config.HasYahoo() {
		return eris.New("at least one marketplace credential is required (set PROTEINFINDER_RAKUTEN_APPLICATION_ID or PROTEINFINDER_YAHOO_APP_ID)")
	}
	return nil
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return eris.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return eris.New("redis URL is required when cache type is 'redis'")
	}

	if config.Filter.MinPricePerServing >= config.Filter.MaxPricePerServing {
		return eris.Errorf("filter price band is empty: min %d >= max %d",
			config.Filter.MinPricePerServing, config.Filter.MaxPricePerServing)
	}

	if config.Pipeline.PageSize <= 0 {
		return eris.Errorf("pipeline page size must be positive, got: %d", config.Pipeline.PageSize)
	}

	return nil
}
