package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "STAT_ATLAS"

type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	Storage StorageSettings `mapstructure:"storage"`
	Catalog string          `mapstructure:"catalog"`
	// Seed fixes the forecast randomness. Zero means a fresh seed per request.
	Seed     uint64 `mapstructure:"seed"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StorageSettings struct {
	// DataDir holds the dataset JSON files.
	DataDir string `mapstructure:"data_dir"`
	// DbPath enables the embedded DuckDB store when set. Datasets are then
	// served from the store and imported from DataDir.
	DbPath string `mapstructure:"db_path"`
	// RefreshInterval re-imports the datasets periodically in the web server.
	// Zero imports once at startup.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.db_path", "")
	v.SetDefault("storage.refresh_interval", "0s")
	v.SetDefault("catalog", "data/datasets.ini")
	v.SetDefault("seed", 0)
	v.SetDefault("log_level", "info")
}

// LoadSettings reads the settings file at path, if any, and applies
// STAT_ATLAS_* environment overrides (STAT_ATLAS_SERVER_PORT and so on).
// An empty path means defaults plus environment only.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if settings.Server.Port <= 0 || settings.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", settings.Server.Port)
	}
	return &settings, nil
}
