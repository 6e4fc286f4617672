// Package config loads service configuration from a YAML file with
// environment-variable overrides. Every field has a default so the binary
// runs against a local stack with no file at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"storefilter/pkg/types"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Amqp     AmqpConfig     `yaml:"amqp"`
	Auth     AuthConfig     `yaml:"auth"`
	Filter   FilterConfig   `yaml:"filter"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslMode"`
}

// DSN returns a lib/pq data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	SettingsKey string        `yaml:"settingsKey"`
	SettingsTTL time.Duration `yaml:"settingsTTL"`
}

type AmqpConfig struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
}

type AuthConfig struct {
	TokenSecret string        `yaml:"tokenSecret"`
	TokenTTL    time.Duration `yaml:"tokenTTL"`
}

type FilterConfig struct {
	CategoryTaxonomy string                  `yaml:"categoryTaxonomy"`
	DefaultTaxonomy  string                  `yaml:"defaultTaxonomy"`
	MaxPageSize      int                     `yaml:"maxPageSize"`
	FacetConcurrency int                     `yaml:"facetConcurrency"`
	Dimensions       []types.DimensionConfig `yaml:"dimensions"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "storefront",
			User:     "storefront",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			SettingsKey: "storefilter:settings",
			SettingsTTL: time.Minute,
		},
		Amqp: AmqpConfig{Prefix: "storefilter"},
		Auth: AuthConfig{TokenTTL: 15 * time.Minute},
		Filter: FilterConfig{
			CategoryTaxonomy: "product_cat",
			DefaultTaxonomy:  "product_tag",
			MaxPageSize:      100,
			FacetConcurrency: 8,
			Dimensions: []types.DimensionConfig{
				{Name: "width", Backing: types.BackingEnumeratedTerms, Taxonomy: "pa_width-cm"},
				{Name: "depth", Backing: types.BackingEnumeratedTerms, Taxonomy: "pa_depth-cm"},
				{Name: "area", Backing: types.BackingEnumeratedTerms, Taxonomy: "pa_area-m2"},
			},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML file (optional) and applies env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(cfg)
	if cfg.Filter.MaxPageSize < 1 || cfg.Filter.MaxPageSize > 100 {
		cfg.Filter.MaxPageSize = 100
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 15 * time.Minute
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "SERVER_ADDR")
	setString(&cfg.Postgres.Host, "POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "POSTGRES_PORT")
	setString(&cfg.Postgres.Database, "POSTGRES_DB")
	setString(&cfg.Postgres.User, "POSTGRES_USER")
	setString(&cfg.Postgres.Password, "POSTGRES_PASSWORD")
	setString(&cfg.Postgres.SSLMode, "POSTGRES_SSLMODE")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setString(&cfg.Amqp.URL, "AMQP_URL")
	setString(&cfg.Amqp.Prefix, "AMQP_PREFIX")
	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
}

func setString(target *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*target = v
	}
}

func setInt(target *int, env string) {
	if v, ok := os.LookupEnv(env); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
