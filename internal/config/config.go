package config

import (
	"keyword-seasonality/pkg/logger"
	"keyword-seasonality/pkg/source"
	"keyword-seasonality/pkg/storage"
	"keyword-seasonality/pkg/worker"
)

type Config struct {
	Server  ServerConfig          `mapstructure:"server"`
	Source  SourceConfig          `mapstructure:"source"`
	Scoring ScoringConfig         `mapstructure:"scoring"`
	Output  OutputConfig          `mapstructure:"output"`
	Storage storage.StorageConfig `mapstructure:"storage"`
	Worker  worker.PoolConfig     `mapstructure:"worker"`
	Logger  logger.Config         `mapstructure:"logger"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	BodyLimitMB  int    `mapstructure:"body_limit_mb"`
	ReadTimeoutS int    `mapstructure:"read_timeout_s"`
}

type SourceConfig struct {
	Path           string            `mapstructure:"path"`
	HTTP           source.HTTPConfig `mapstructure:"http"`
	source.Options `mapstructure:",squash"`
}

type ScoringConfig struct {
	YearLength int `mapstructure:"year_length"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Top    int    `mapstructure:"top"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
