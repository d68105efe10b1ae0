package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the propsearch configuration.
type Config struct {
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Index         IndexConfig         `yaml:"index"`
	Ingest        IngestConfig        `yaml:"ingest"`
	Geocode       GeocodeConfig       `yaml:"geocode"`
	HTTP          HTTPConfig          `yaml:"http"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ElasticsearchConfig holds the index store connection settings.
type ElasticsearchConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	// RequestTimeoutSec bounds every store call. Generous, since bulk
	// loads are long-running.
	RequestTimeoutSec int `yaml:"request_timeout_sec"`
}

// IndexConfig names the target index and its static definition files.
type IndexConfig struct {
	Name         string `yaml:"name"`
	MappingFile  string `yaml:"mapping_file"`
	TemplateID   string `yaml:"template_id"`
	TemplateFile string `yaml:"template_file"`
}

// IngestConfig holds bulk load settings.
type IngestConfig struct {
	DatasetFile string `yaml:"dataset_file"`
	Workers     int    `yaml:"workers"`
	ChunkSize   int    `yaml:"chunk_size"`
}

// GeocodeConfig holds the geocoding provider settings.
type GeocodeConfig struct {
	Endpoint       string             `yaml:"endpoint"`
	APIKey         string             `yaml:"api_key"`
	Region         string             `yaml:"region"`
	FallbackSuffix string             `yaml:"fallback_suffix"`
	Cache          GeocodeCacheConfig `yaml:"cache"`
}

// GeocodeCacheConfig holds the optional Redis-backed geocode cache settings.
// The cache is disabled when no addrs are configured.
type GeocodeCacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// HTTPConfig holds HTTP server settings for the serve side.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads config/<env>.yaml, expands ${VAR} references, applies defaults
// and validates the result.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Elasticsearch.RequestTimeoutSec <= 0 {
		c.Elasticsearch.RequestTimeoutSec = 600
	}
	if c.Index.Name == "" {
		c.Index.Name = "properties"
	}
	if c.Index.MappingFile == "" {
		c.Index.MappingFile = "data/properties_index_mapping.json"
	}
	if c.Index.TemplateID == "" {
		c.Index.TemplateID = "properties-search-template"
	}
	if c.Index.TemplateFile == "" {
		c.Index.TemplateFile = "data/search_template.mustache"
	}
	if c.Ingest.DatasetFile == "" {
		c.Ingest.DatasetFile = "data/florida_properties.json"
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 4
	}
	if c.Ingest.ChunkSize <= 0 {
		c.Ingest.ChunkSize = 50
	}
	if c.Geocode.Endpoint == "" {
		c.Geocode.Endpoint = "https://maps.googleapis.com/maps/api/geocode/json"
	}
	if c.Geocode.Region == "" {
		c.Geocode.Region = "us"
	}
	if c.Geocode.FallbackSuffix == "" {
		c.Geocode.FallbackSuffix = ", Florida"
	}
	if c.Geocode.Cache.TTLSec <= 0 {
		c.Geocode.Cache.TTLSec = 86400
	}
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Elasticsearch.Endpoint == "" {
		return fmt.Errorf("elasticsearch.endpoint is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Index.Name == "" {
		return fmt.Errorf("index.name is required")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
