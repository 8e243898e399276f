package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Agent  AgentConfig  `yaml:"agent" mapstructure:"agent"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the query-run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// AgentConfig configures corpus loading and query defaults.
type AgentConfig struct {
	DocsDir       string  `yaml:"docs_dir" mapstructure:"docs_dir"`
	TopicsFile    string  `yaml:"topics_file" mapstructure:"topics_file"`
	TopK          int     `yaml:"top_k" mapstructure:"top_k"`
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("POLICYQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "policyqa.db")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("agent.docs_dir", "documents")
	v.SetDefault("agent.top_k", 3)
	v.SetDefault("agent.min_confidence", 0.65)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
