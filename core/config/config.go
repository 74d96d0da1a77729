package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

// HealthConfig configures the keep-alive HTTP probe listener.
// An empty Listen disables the probe server.
type HealthConfig struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
}

// DatasetConfig points at the directories holding exportable CSV files.
type DatasetConfig struct {
	ChatsDir    string `yaml:"chats_dir" envconfig:"DATASET_CHATS_DIR"`
	ChannelsDir string `yaml:"channels_dir" envconfig:"DATASET_CHANNELS_DIR"`
	// FilePrefix is stripped from filename stems when deriving category keys.
	FilePrefix string `yaml:"file_prefix" envconfig:"DATASET_FILE_PREFIX"`
}

// ExportConfig bounds export materialization.
type ExportConfig struct {
	// MaxRows caps any export, including "all records" requests.
	MaxRows int `yaml:"max_rows" envconfig:"EXPORT_MAX_ROWS"`
	// MaxCustom is the upper bound accepted for a user-typed record count.
	MaxCustom int `yaml:"max_custom" envconfig:"EXPORT_MAX_CUSTOM"`
	Workers   int `yaml:"workers" envconfig:"EXPORT_WORKERS"`
	QueueSize int `yaml:"queue_size" envconfig:"EXPORT_QUEUE_SIZE"`
	// JobTimeoutSeconds bounds a single materialize+deliver job.
	JobTimeoutSeconds int `yaml:"job_timeout_seconds" envconfig:"EXPORT_JOB_TIMEOUT_SECONDS"`
}

// StatsConfig selects the statistics counters backend.
type StatsConfig struct {
	Backend string `yaml:"backend" envconfig:"STATS_BACKEND"`
	// FilePath backs the file backend; ignored otherwise.
	FilePath string `yaml:"file_path" envconfig:"STATS_FILE_PATH"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// StatsBackendPostgres stores counters in Postgres.
	StatsBackendPostgres = "postgres"
	// StatsBackendFile stores counters in a local JSON file.
	StatsBackendFile = "file"
	// StatsBackendMemory keeps counters in process memory only.
	StatsBackendMemory = "memory"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// DatabaseConfig holds Postgres connection settings for the stats backend.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Config aggregates all application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	Health    HealthConfig    `yaml:"health"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Export    ExportConfig    `yaml:"export"`
	Stats     StatsConfig     `yaml:"stats"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if strings.TrimSpace(cfg.Dataset.ChatsDir) == "" {
		cfg.Dataset.ChatsDir = "./chats"
	}
	if strings.TrimSpace(cfg.Dataset.ChannelsDir) == "" {
		cfg.Dataset.ChannelsDir = "./channels"
	}
	if strings.TrimSpace(cfg.Dataset.FilePrefix) == "" {
		cfg.Dataset.FilePrefix = "tgstat"
	}

	if cfg.Export.MaxRows <= 0 {
		cfg.Export.MaxRows = 100000
	}
	if cfg.Export.MaxCustom <= 0 {
		cfg.Export.MaxCustom = 10000
	}
	if cfg.Export.Workers <= 0 {
		cfg.Export.Workers = 2
	}
	if cfg.Export.QueueSize <= 0 {
		cfg.Export.QueueSize = 32
	}
	if cfg.Export.JobTimeoutSeconds <= 0 {
		cfg.Export.JobTimeoutSeconds = 120
	}

	sb := strings.ToLower(strings.TrimSpace(cfg.Stats.Backend))
	if sb == "" {
		sb = StatsBackendFile
	}
	switch sb {
	case StatsBackendPostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when stats.backend is 'postgres'")
		}
	case StatsBackendFile:
		if strings.TrimSpace(cfg.Stats.FilePath) == "" {
			cfg.Stats.FilePath = "./bot_stats.json"
		}
	case StatsBackendMemory:
	default:
		return fmt.Errorf("invalid stats.backend %q; allowed: postgres, file, memory", cfg.Stats.Backend)
	}
	cfg.Stats.Backend = sb

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}
