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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Extract  ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	Analyzer AnalyzerConfig `yaml:"analyzer" mapstructure:"analyzer"`
	Ollama   OllamaConfig   `yaml:"ollama" mapstructure:"ollama"`
	SMTP     SMTPConfig     `yaml:"smtp" mapstructure:"smtp"`
	Email    EmailConfig    `yaml:"email" mapstructure:"email"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExtractConfig configures PDF text extraction.
type ExtractConfig struct {
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnalyzerConfig configures the scoring engine.
type AnalyzerConfig struct {
	GenericFactor float64 `yaml:"generic_factor" mapstructure:"generic_factor"`
}

// OllamaConfig configures the optional local LLM analysis path.
type OllamaConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SMTPConfig holds mail transport settings.
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
	DryRun   bool   `yaml:"dry_run" mapstructure:"dry_run"`
}

// EmailConfig holds notification content settings.
type EmailConfig struct {
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	SupportEmail     string `yaml:"support_email" mapstructure:"support_email"`
	Phone            string `yaml:"phone" mapstructure:"phone"`
	SendIntervalSecs int    `yaml:"send_interval_secs" mapstructure:"send_interval_secs"`
}

// ReportConfig configures PDF report generation.
type ReportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// BatchConfig configures directory batch processing.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the fields required for the given run mode.
func (c *Config) Validate(mode string) error {
	var missing []string

	if c.Store.Path == "" {
		missing = append(missing, "store.path is required")
	}
	if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 50 {
		missing = append(missing, "batch.max_concurrent must be between 1 and 50")
	}

	switch mode {
	case "process":
		if c.Extract.PdfToTextPath == "" {
			missing = append(missing, "extract.pdftotext_path is required")
		}
		if c.Report.Dir == "" {
			missing = append(missing, "report.dir is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
	case "emails":
		if c.SMTP.Host == "" {
			missing = append(missing, "smtp.host is required")
		}
		if c.SMTP.From == "" {
			missing = append(missing, "smtp.from is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(missing, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "candidatures.db")
	v.SetDefault("extract.pdftotext_path", "pdftotext")
	v.SetDefault("extract.timeout_secs", 60)
	v.SetDefault("analyzer.generic_factor", 0.01)
	v.SetDefault("ollama.enabled", true)
	v.SetDefault("ollama.base_url", "http://localhost:11434/v1")
	v.SetDefault("ollama.model", "")
	v.SetDefault("ollama.timeout_secs", 200)
	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "contact@asi.incubateur.dz")
	v.SetDefault("smtp.dry_run", false)
	v.SetDefault("email.base_url", "https://asi.incubateur.dz")
	v.SetDefault("email.support_email", "contact@asi.incubateur.dz")
	v.SetDefault("email.phone", "+213 23 45 67 89")
	v.SetDefault("email.send_interval_secs", 2)
	v.SetDefault("report.dir", "reports")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent", 3)
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
