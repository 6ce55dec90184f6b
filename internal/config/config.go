package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/visibility-cli/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig               `yaml:"store" mapstructure:"store"`
	Report    ReportConfig              `yaml:"report" mapstructure:"report"`
	Providers map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
	Pricing   cost.Rates                `yaml:"pricing" mapstructure:"pricing"`
	Server    ServerConfig              `yaml:"server" mapstructure:"server"`
	Log       LogConfig                 `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the report persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ReportConfig configures report generation behavior.
type ReportConfig struct {
	QueryCount        int    `yaml:"query_count" mapstructure:"query_count"`
	InterQueryDelayMS int    `yaml:"inter_query_delay_ms" mapstructure:"inter_query_delay_ms"`
	LowVisibilityPct  int    `yaml:"low_visibility_pct" mapstructure:"low_visibility_pct"`
	WeakRankThreshold int    `yaml:"weak_rank_threshold" mapstructure:"weak_rank_threshold"`
	MinCompetitorSeen int    `yaml:"min_competitor_seen" mapstructure:"min_competitor_seen"`
	TemplatesFile     string `yaml:"templates_file" mapstructure:"templates_file"`
}

// ProviderConfig configures one assistant platform adapter.
type ProviderConfig struct {
	Enabled       bool    `yaml:"enabled" mapstructure:"enabled"`
	Key           string  `yaml:"key" mapstructure:"key"`
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	Model         string  `yaml:"model" mapstructure:"model"`
	MaxTokens     int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature   float64 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit     int     `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateWindowMin int     `yaml:"rate_window_min" mapstructure:"rate_window_min"`
}

// Timeout returns the per-call deadline for this provider.
func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSecs <= 0 {
		return 45 * time.Second
	}
	return time.Duration(p.TimeoutSecs) * time.Second
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("VISIBILITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "visibility.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("report.query_count", 10)
	v.SetDefault("report.inter_query_delay_ms", 500)
	v.SetDefault("report.low_visibility_pct", 30)
	v.SetDefault("report.weak_rank_threshold", 3)
	v.SetDefault("report.min_competitor_seen", 2)

	for name, model := range map[string]string{
		"openai":     "gpt-4o-mini",
		"anthropic":  "claude-haiku-4-5-20251001",
		"gemini":     "gemini-2.0-flash",
		"perplexity": "sonar-pro",
	} {
		v.SetDefault("providers."+name+".enabled", true)
		v.SetDefault("providers."+name+".model", model)
		v.SetDefault("providers."+name+".max_tokens", 1024)
		v.SetDefault("providers."+name+".temperature", 0.7)
		v.SetDefault("providers."+name+".timeout_secs", 45)
		v.SetDefault("providers."+name+".rate_limit", 20)
		v.SetDefault("providers."+name+".rate_window_min", 1)
	}
	v.SetDefault("providers.perplexity.base_url", "https://api.perplexity.ai")

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

	if cfg.Pricing == nil {
		cfg.Pricing = cost.DefaultRates()
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
