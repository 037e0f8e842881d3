// Package config reads feature_store.yaml, the configuration of a feature repository.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/credit-scoring/feature-repo/constants"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	configFileName = "feature_store"
	configFileType = "yaml"
	envPrefix      = "FEATUREREPO"

	DefaultRegistryPath = "data/registry.db"
)

type Config struct {
	// RepoDir is the directory feature_store.yaml was read from.
	RepoDir  string         `mapstructure:"-"`
	Project  string         `mapstructure:"project" validate:"required"`
	Registry RegistryConfig `mapstructure:"registry"`
	Log      LogConfig      `mapstructure:"log"`
}

type RegistryConfig struct {
	Type  string `mapstructure:"type" validate:"oneof=file sql redis badger tablestore"`
	Path  string `mapstructure:"path"`
	Codec string `mapstructure:"codec" validate:"oneof=json yaml proto"`

	// sql
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`

	// redis
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// tablestore
	Endpoint        string `mapstructure:"endpoint"`
	Instance        string `mapstructure:"instance"`
	AccessKeyId     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`

	// Table is the registry table of the sql and tablestore registries.
	Table string `mapstructure:"table"`

	// Refresh reloads the registry every minute in long running clients.
	Refresh bool `mapstructure:"refresh"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var defaults = map[string]interface{}{
	"project":                    "",
	"registry.type":              constants.Registry_Type_File,
	"registry.path":              DefaultRegistryPath,
	"registry.codec":             constants.Codec_Proto,
	"registry.driver":            "",
	"registry.dsn":               "",
	"registry.address":           "",
	"registry.password":          "",
	"registry.db":                0,
	"registry.endpoint":          "",
	"registry.instance":          "",
	"registry.access_key_id":     "",
	"registry.access_key_secret": "",
	"registry.table":             "",
	"registry.refresh":           false,
	"log.level":                  "info",
}

// Load reads feature_store.yaml from repoDir. A missing file is not an error;
// every key can also be set from the environment, e.g. FEATUREREPO_REGISTRY_TYPE.
func Load(repoDir string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(repoDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.RepoDir = repoDir
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolvePaths() {
	switch c.Registry.Type {
	case constants.Registry_Type_File, constants.Registry_Type_Badger:
		if c.Registry.Path != "" && !filepath.IsAbs(c.Registry.Path) {
			c.Registry.Path = filepath.Join(c.RepoDir, c.Registry.Path)
		}
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Registry.Type {
	case constants.Registry_Type_SQL:
		if c.Registry.Driver == "" || c.Registry.DSN == "" {
			return fmt.Errorf("invalid config: sql registry needs registry.driver and registry.dsn")
		}
	case constants.Registry_Type_Redis:
		if c.Registry.Address == "" {
			return fmt.Errorf("invalid config: redis registry needs registry.address")
		}
	case constants.Registry_Type_TableStore:
		if c.Registry.Endpoint == "" || c.Registry.Instance == "" || c.Registry.Table == "" {
			return fmt.Errorf("invalid config: tablestore registry needs registry.endpoint, registry.instance and registry.table")
		}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogLevel is the configured zerolog level, info when unset.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
