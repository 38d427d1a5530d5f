package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Pratik8019/quant-app/internal/analytics"
	"github.com/Pratik8019/quant-app/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Pair struct {
		SymbolA string `yaml:"symbol_a"`
		SymbolB string `yaml:"symbol_b"`
	} `yaml:"pair"`
	Interval string `yaml:"interval"`
	Join     string `yaml:"join"`
	Source   struct {
		Mode string `yaml:"mode"` // "file" or "nats"
		File string `yaml:"file"`
		NATS struct {
			URL     string `yaml:"url"`
			Subject string `yaml:"subject"`
			Buffer  int    `yaml:"buffer"`
		} `yaml:"nats"`
	} `yaml:"source"`
	Analysis analytics.Params `yaml:"analysis"`
	Alert    struct {
		Threshold       float64 `yaml:"threshold"` // 0 = inherit entry_threshold
		CooldownMinutes int     `yaml:"cooldown_minutes"`
		StateFile       string  `yaml:"state_file"`
	} `yaml:"alert"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		RunOnStart  bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Analysis = analytics.DefaultParams()
	cfg.Schedule.RunOnStart = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.Source.NATS.URL = v
	}
	if v := os.Getenv("QUANT_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Interval == "" {
		cfg.Interval = string(model.Interval1m)
	}
	if cfg.Join == "" {
		cfg.Join = string(analytics.JoinIntersect)
	}
	if cfg.Source.Mode == "" {
		cfg.Source.Mode = "file"
	}
	if cfg.Source.File == "" {
		cfg.Source.File = "data/ticks.ndjson"
	}
	if cfg.Source.NATS.URL == "" {
		cfg.Source.NATS.URL = "nats://127.0.0.1:4222"
	}
	if cfg.Source.NATS.Subject == "" {
		cfg.Source.NATS.Subject = "ticks"
	}
	if cfg.Analysis.PriceMode == "" {
		cfg.Analysis.PriceMode = analytics.ModePrice
	}
	if cfg.Alert.CooldownMinutes == 0 {
		cfg.Alert.CooldownMinutes = 30
	}
	if cfg.Alert.StateFile == "" {
		cfg.Alert.StateFile = "data/alert_state.json"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 * * * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and in range.
func (c *Config) Validate() error {
	if c.Pair.SymbolA == "" || c.Pair.SymbolB == "" {
		return fmt.Errorf("pair.symbol_a and pair.symbol_b are required")
	}
	if c.Pair.SymbolA == c.Pair.SymbolB {
		return fmt.Errorf("pair.symbol_a and pair.symbol_b must differ")
	}
	if _, err := model.Interval(c.Interval).Duration(); err != nil {
		return fmt.Errorf("interval: %w", err)
	}
	switch analytics.JoinPolicy(c.Join) {
	case analytics.JoinIntersect, analytics.JoinFFill:
	default:
		return fmt.Errorf("join must be %q or %q", analytics.JoinIntersect, analytics.JoinFFill)
	}
	switch c.Source.Mode {
	case "file":
		if c.Source.File == "" {
			return fmt.Errorf("source.file is required in file mode")
		}
	case "nats":
		if c.Source.NATS.URL == "" || c.Source.NATS.Subject == "" {
			return fmt.Errorf("source.nats.url and source.nats.subject are required in nats mode")
		}
	default:
		return fmt.Errorf("source.mode must be \"file\" or \"nats\"")
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if c.Alert.Threshold < 0 {
		return fmt.Errorf("alert.threshold must be >= 0")
	}
	if c.Alert.CooldownMinutes < 0 {
		return fmt.Errorf("alert.cooldown_minutes must be >= 0")
	}
	return nil
}

// AlertThreshold resolves the alert threshold; zero inherits the entry
// threshold.
func (c *Config) AlertThreshold() float64 {
	if c.Alert.Threshold > 0 {
		return c.Alert.Threshold
	}
	return c.Analysis.EntryThreshold
}

// AlertCooldown returns the alert cooldown as a duration.
func (c *Config) AlertCooldown() time.Duration {
	return time.Duration(c.Alert.CooldownMinutes) * time.Minute
}
