package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"keyword-seasonality/pkg/ranking"
	"keyword-seasonality/pkg/seasonality"
	"keyword-seasonality/pkg/source"
)

// EnvPrefix is prepended to every environment override, e.g.
// SEASONALITY_SCORING_YEAR_LENGTH
const EnvPrefix = "SEASONALITY"

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads configPath when given, then applies environment overrides on
// top of the defaults. An empty configPath uses defaults and environment only.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	config, err := m.read()
	if err != nil {
		return nil, err
	}

	m.config = config
	return config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	config, err := m.read()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) read() (*Config, error) {
	if m.viper.ConfigFileUsed() != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %w", err)
			}
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func (m *manager) setupViper(configPath string) {
	setDefaults(m.viper)

	if configPath != "" {
		m.viper.SetConfigFile(configPath)
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
}

func setDefaults(v *viper.Viper) {
	opts := source.DefaultOptions()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit_mb", 16)
	v.SetDefault("server.read_timeout_s", 30)

	v.SetDefault("source.path", "dataset.csv")
	v.SetDefault("source.http.url", "")
	v.SetDefault("source.http.api_key", "")
	v.SetDefault("source.http.timeout", "30s")
	v.SetDefault("source.http.max_retries", 2)
	v.SetDefault("source.http.retry_delay", "500ms")
	v.SetDefault("source.keyword_column", opts.KeywordColumn)
	v.SetDefault("source.time_series_column", opts.TimeSeriesColumn)
	v.SetDefault("source.delimiter", opts.Delimiter)
	v.SetDefault("source.encoding", opts.Encoding)

	v.SetDefault("scoring.year_length", seasonality.WeeksPerYear)

	v.SetDefault("output.format", string(ranking.FormatText))
	v.SetDefault("output.top", 0)

	v.SetDefault("storage.data_dir", "")

	v.SetDefault("worker.max_workers", runtime.NumCPU())
	v.SetDefault("worker.enable_metrics", true)

	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.time_format", "")
}

// Validate checks values that would otherwise fail deep inside a run
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Scoring.YearLength <= 0 {
		return fmt.Errorf("scoring.year_length must be positive")
	}

	if config.Worker.MaxWorkers <= 0 {
		return fmt.Errorf("worker.max_workers must be positive")
	}

	if config.Output.Top < 0 {
		return fmt.Errorf("output.top cannot be negative")
	}

	if _, err := ranking.ParseFormat(config.Output.Format); err != nil {
		return err
	}

	if !source.SupportedEncoding(config.Source.Options.Encoding) {
		return fmt.Errorf("unsupported source.encoding: %s", config.Source.Options.Encoding)
	}

	if len([]rune(config.Source.Options.Delimiter)) != 1 {
		return fmt.Errorf("source.delimiter must be a single character")
	}

	return nil
}
