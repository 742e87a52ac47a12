package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/docql/docql/internal/schema"
)

const envPrefix = "DOCQL_"

type DatabaseConfig struct {
	URI          string `yaml:"uri" env:"DATABASE_URI"`
	Host         string `yaml:"host" env:"DATABASE_HOST"`
	Port         int    `yaml:"port" env:"DATABASE_PORT"`
	Database     string `yaml:"database" env:"DATABASE_NAME"`
	Username     string `yaml:"username" env:"DATABASE_USERNAME"`
	Password     string `yaml:"password" env:"DATABASE_PASSWORD"`
	AuthDatabase string `yaml:"auth_database" env:"DATABASE_AUTH_DATABASE"`
}

// Setting is a raw scalar config value. It accepts any yaml scalar, so
// numeric values work unquoted; resolution to a typed value happens later.
type Setting string

func (s *Setting) UnmarshalYAML(node *yaml.Node) error {
	*s = Setting(node.Value)
	return nil
}

// DiscoveryConfig holds the raw schema discovery settings. Values stay
// scalars and are resolved through DiscoverySettings so a bad value degrades
// to a default instead of failing the load.
type DiscoveryConfig struct {
	Mode           Setting `yaml:"mode" env:"DISCOVERY_MODE"`
	SampleSize     Setting `yaml:"sample_size" env:"DISCOVERY_SAMPLE_SIZE"`
	SampleStrategy Setting `yaml:"sample_strategy" env:"DISCOVERY_SAMPLE_STRATEGY"`
}

// CacheConfig holds the raw schema cache settings, resolved by CacheSettings
// under the same degrade-to-default rule.
type CacheConfig struct {
	Strategy     Setting `yaml:"strategy" env:"CACHE_STRATEGY"`
	TTL          Setting `yaml:"ttl" env:"CACHE_TTL"`
	WarmInterval Setting `yaml:"warm_interval" env:"CACHE_WARM_INTERVAL"`
	MaxEntries   Setting `yaml:"max_entries" env:"CACHE_MAX_ENTRIES"`
}

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Cache     CacheConfig     `yaml:"cache"`
}

// LoadConfig reads the yaml file when a path is given, then applies DOCQL_*
// environment overrides on top.
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	if strings.TrimSpace(configPath) != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&config, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	return &config, nil
}

func (c *Config) GetMongoURI() string {
	if c.Database.URI != "" {
		return c.Database.URI
	}

	host := c.Database.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Database.Port
	if port == 0 {
		port = 27017
	}

	var credentials string
	if c.Database.Username != "" {
		credentials = url.QueryEscape(c.Database.Username)
		if c.Database.Password != "" {
			credentials = fmt.Sprintf("%s:%s", credentials, url.QueryEscape(c.Database.Password))
		}
		credentials += "@"
	}

	targetDatabase := strings.TrimSpace(c.Database.Database)
	if targetDatabase != "" {
		targetDatabase = "/" + targetDatabase
	}

	uri := fmt.Sprintf("mongodb://%s%s:%d%s", credentials, host, port, targetDatabase)

	if c.Database.AuthDatabase != "" {
		uri = fmt.Sprintf("%s?authSource=%s", uri, url.QueryEscape(c.Database.AuthDatabase))
	}

	return uri
}

// DiscoverySettings resolves the raw discovery settings once into the typed
// form the detector consumes. Unparseable values never fail; they fall back
// to the documented defaults.
func (c *Config) DiscoverySettings() schema.DiscoveryConfig {
	settings := schema.DiscoveryConfig{
		Mode:           schema.ParseDiscoveryMode(string(c.Discovery.Mode)),
		SampleStrategy: schema.ParseSampleStrategy(string(c.Discovery.SampleStrategy)),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(string(c.Discovery.SampleSize))); err == nil && n > 0 {
		settings.SampleSize = n
	}
	return settings
}

// CacheSettings resolves the raw cache settings once into the typed form the
// schema cache consumes, under the same degrade-to-default rule. A negative
// TTL is kept as configured: it pins every entry to the never-valid state.
func (c *Config) CacheSettings() schema.CacheConfig {
	settings := schema.CacheConfig{
		Strategy: schema.ParseCacheStrategy(string(c.Cache.Strategy)),
	}
	if d, err := time.ParseDuration(strings.TrimSpace(string(c.Cache.TTL))); err == nil {
		settings.TTL = d
	}
	if d, err := time.ParseDuration(strings.TrimSpace(string(c.Cache.WarmInterval))); err == nil && d > 0 {
		settings.WarmInterval = d
	}
	if n, err := strconv.Atoi(strings.TrimSpace(string(c.Cache.MaxEntries))); err == nil && n > 0 {
		settings.MaxEntries = n
	}
	return settings
}
