package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Timezone string   `yaml:"timezone"`
	Market   Market   `yaml:"market"`
	Schedule Schedule `yaml:"schedule"`
	Discord  Discord  `yaml:"discord"`
	Sources  Sources  `yaml:"sources"`
	Message  Message  `yaml:"message"`
	Report   Report   `yaml:"report"`
	Output   Output   `yaml:"output"`
}

// Market is the trading-hours window used to gate scheduled jobs.
type Market struct {
	OpenHour  int `yaml:"open_hour"`
	CloseHour int `yaml:"close_hour"`
}

type Schedule struct {
	SweepEvery Duration `yaml:"sweep_every"`
	DigestHour int      `yaml:"digest_hour"`
	ReportHour int      `yaml:"report_hour"`
}

// Duration decodes YAML duration strings like "2h" or "90s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Discord struct {
	TokenEnv      string `yaml:"token_env"`
	NewsChannelID string `yaml:"news_channel_id"`
	LogWebhookEnv string `yaml:"log_webhook_env"`
}

type Sources struct {
	NewsAPI NewsAPIConfig `yaml:"newsapi"`
	Feed    FeedConfig    `yaml:"feed"`
}

type NewsAPIConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKeyEnv string `yaml:"api_key_env"`
	Language  string `yaml:"language"`
}

// FeedConfig configures the per-symbol RSS source. URLTemplate must contain
// a {symbol} placeholder.
type FeedConfig struct {
	Enabled     bool   `yaml:"enabled"`
	URLTemplate string `yaml:"url_template"`
	Name        string `yaml:"name"`
}

type Message struct {
	ChunkSize int `yaml:"chunk_size"`
}

type Report struct {
	QuoteTimeout Duration `yaml:"quote_timeout"`
	PDF          bool     `yaml:"pdf"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

// ConfigDir returns the XDG config directory for tickerherald.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "tickerherald")
}

// DataDir returns the XDG data directory for tickerherald.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "tickerherald")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/tickerherald/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'tickerherald init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Timezone: "Europe/Berlin",
		Market: Market{
			OpenHour:  8,
			CloseHour: 22,
		},
		Schedule: Schedule{
			SweepEvery: Duration(2 * time.Hour),
			DigestHour: 9,
			ReportHour: 22,
		},
		Discord: Discord{
			TokenEnv:      "DISCORD_TOKEN",
			LogWebhookEnv: "DISCORD_LOG_WEBHOOK",
		},
		Sources: Sources{
			NewsAPI: NewsAPIConfig{
				Enabled:   true,
				APIKeyEnv: "NEWSAPI_KEY",
				Language:  "en",
			},
			Feed: FeedConfig{
				Enabled:     true,
				URLTemplate: "https://feeds.finance.yahoo.com/rss/2.0/headline?s={symbol}&region=US&lang=en-US",
				Name:        "Yahoo Finance",
			},
		},
		Message: Message{ChunkSize: 1900},
		Report:  Report{QuoteTimeout: Duration(5 * time.Second), PDF: true},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations the scheduler cannot run with.
// Bad configuration aborts startup; everything else degrades at runtime.
func (c *Config) validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.Market.OpenHour < 0 || c.Market.OpenHour > 23 || c.Market.CloseHour < 0 || c.Market.CloseHour > 24 {
		return fmt.Errorf("market hours out of range: open=%d close=%d", c.Market.OpenHour, c.Market.CloseHour)
	}
	if c.Market.OpenHour >= c.Market.CloseHour {
		return fmt.Errorf("market open hour %d must be before close hour %d", c.Market.OpenHour, c.Market.CloseHour)
	}
	if c.Schedule.SweepEvery.Std() < time.Minute {
		return fmt.Errorf("sweep interval %s too short", c.Schedule.SweepEvery.Std())
	}
	if c.Schedule.DigestHour < 0 || c.Schedule.DigestHour > 23 {
		return fmt.Errorf("digest hour out of range: %d", c.Schedule.DigestHour)
	}
	if c.Schedule.ReportHour < 0 || c.Schedule.ReportHour > 23 {
		return fmt.Errorf("report hour out of range: %d", c.Schedule.ReportHour)
	}
	if c.Message.ChunkSize <= 0 {
		return fmt.Errorf("message chunk size must be positive, got %d", c.Message.ChunkSize)
	}
	return nil
}

// Location returns the configured time zone. Only valid after Load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
