package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/product-matcher/internal/matcher"
	"github.com/spf13/viper"
)

// Config holds all configuration for the api and worker binaries.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Matcher      MatcherConfig      `mapstructure:"matcher"`
	Cache        CacheConfig        `mapstructure:"cache"`
	KeywordStore KeywordStoreConfig `mapstructure:"keyword_store"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Meilisearch  MeilisearchConfig  `mapstructure:"meilisearch"`
	Batch        BatchConfig        `mapstructure:"batch"`
	RateLimit    RateLimitConfig    `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MatcherConfig struct {
	Weights             matcher.Weights `mapstructure:"weights"`
	VocabularyPath      string          `mapstructure:"vocabulary_path"` // empty: embedded tables
	CandidateLimit      int             `mapstructure:"candidate_limit"`
	AlternativeLimit    int             `mapstructure:"alternative_limit"`
	SuggestionLimit     int             `mapstructure:"suggestion_limit"`
	SuggestionThreshold float64         `mapstructure:"suggestion_threshold"`
	SimilarityThreshold float64         `mapstructure:"similarity_threshold"`
}

type CacheConfig struct {
	Type     string        `mapstructure:"type"` // memory, redis or hybrid
	RedisURL string        `mapstructure:"redis_url"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	L1Size   int           `mapstructure:"l1_size"`
}

type KeywordStoreConfig struct {
	Type     string `mapstructure:"type"` // mongo, postgres or sqlite
	DSN      string `mapstructure:"dsn"`
	Database string `mapstructure:"database"`
	Table    string `mapstructure:"table"`
	L1Size   int    `mapstructure:"l1_size"`
}

type CatalogConfig struct {
	Source    string `mapstructure:"source"` // postgres or excel
	DSN       string `mapstructure:"dsn"`
	Table     string `mapstructure:"table"`
	ExcelPath string `mapstructure:"excel_path"`
	Sheet     string `mapstructure:"sheet"`
}

type MeilisearchConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Host    string        `mapstructure:"host"`
	APIKey  string        `mapstructure:"api_key"`
	Index   string        `mapstructure:"index"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type BatchConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type RateLimitConfig struct {
	PerIP float64 `mapstructure:"per_ip"` // requests per second
	Burst int     `mapstructure:"burst"`
}

// Load reads configFile (or config/app.yaml when empty), then MATCHER_* environment
// variables, on top of defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MATCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout", "15s")

	v.SetDefault("log.level", "info")

	w := matcher.DefaultWeights()
	v.SetDefault("matcher.weights.brand", w.Brand)
	v.SetDefault("matcher.weights.vitola", w.Vitola)
	v.SetDefault("matcher.weights.dimension", w.Dimension)
	v.SetDefault("matcher.weights.term_overlap", w.TermOverlap)
	v.SetDefault("matcher.weights.term_overlap_cap", w.TermOverlapCap)
	v.SetDefault("matcher.weights.ring_tolerance", w.RingTolerance)
	v.SetDefault("matcher.weights.length_tolerance", w.LengthTolerance)
	v.SetDefault("matcher.vocabulary_path", "")
	v.SetDefault("matcher.candidate_limit", 50)
	v.SetDefault("matcher.alternative_limit", 3)
	v.SetDefault("matcher.suggestion_limit", 5)
	v.SetDefault("matcher.suggestion_threshold", 0.75)
	v.SetDefault("matcher.similarity_threshold", 0.8)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.prefix", "title_match:")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.l1_size", 10000)

	v.SetDefault("keyword_store.type", "sqlite")
	v.SetDefault("keyword_store.dsn", "keywords.db")
	v.SetDefault("keyword_store.database", "product_matcher")
	v.SetDefault("keyword_store.table", "product_keywords")
	v.SetDefault("keyword_store.l1_size", 5000)

	v.SetDefault("catalog.source", "postgres")
	v.SetDefault("catalog.dsn", "postgres://localhost:5432/catalog?sslmode=disable")
	v.SetDefault("catalog.table", "products")
	v.SetDefault("catalog.excel_path", "")
	v.SetDefault("catalog.sheet", "")

	v.SetDefault("meilisearch.enabled", false)
	v.SetDefault("meilisearch.host", "http://localhost:7700")
	v.SetDefault("meilisearch.api_key", "")
	v.SetDefault("meilisearch.index", "catalog_products")
	v.SetDefault("meilisearch.timeout", "5s")

	v.SetDefault("batch.page_size", 500)

	v.SetDefault("ratelimit.per_ip", 20)
	v.SetDefault("ratelimit.burst", 40)
}

func validate(cfg *Config) error {
	switch cfg.Cache.Type {
	case "memory":
	case "redis", "hybrid":
		if cfg.Cache.RedisURL == "" {
			return fmt.Errorf("redis URL is required when cache type is %q", cfg.Cache.Type)
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'hybrid', got: %s", cfg.Cache.Type)
	}

	switch cfg.KeywordStore.Type {
	case "mongo", "postgres", "sqlite":
		if cfg.KeywordStore.DSN == "" {
			return fmt.Errorf("keyword store dsn is required")
		}
	default:
		return fmt.Errorf("keyword store type must be 'mongo', 'postgres' or 'sqlite', got: %s", cfg.KeywordStore.Type)
	}

	switch cfg.Catalog.Source {
	case "postgres":
		if cfg.Catalog.DSN == "" {
			return fmt.Errorf("catalog dsn is required for the postgres source")
		}
	case "excel":
		if cfg.Catalog.ExcelPath == "" {
			return fmt.Errorf("catalog excel_path is required for the excel source")
		}
	default:
		return fmt.Errorf("catalog source must be 'postgres' or 'excel', got: %s", cfg.Catalog.Source)
	}

	if cfg.Batch.PageSize <= 0 {
		return fmt.Errorf("batch page_size must be positive, got: %d", cfg.Batch.PageSize)
	}
	if cfg.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
