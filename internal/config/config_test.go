package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("expected timezone 'Europe/Berlin', got %q", cfg.Timezone)
	}
	if cfg.Market.OpenHour != 8 || cfg.Market.CloseHour != 22 {
		t.Errorf("expected market hours 8-22, got %d-%d", cfg.Market.OpenHour, cfg.Market.CloseHour)
	}
	if cfg.Schedule.SweepEvery.Std() != 2*time.Hour {
		t.Errorf("expected sweep every 2h, got %s", cfg.Schedule.SweepEvery.Std())
	}
	if cfg.Message.ChunkSize != 1900 {
		t.Errorf("expected chunk size 1900, got %d", cfg.Message.ChunkSize)
	}
	if !cfg.Sources.Feed.Enabled {
		t.Error("expected feed source enabled by default")
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
timezone: America/New_York
schedule:
  sweep_every: 30m
  report_hour: 18
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Timezone != "America/New_York" {
		t.Errorf("expected timezone 'America/New_York', got %q", cfg.Timezone)
	}
	if cfg.Schedule.SweepEvery.Std() != 30*time.Minute {
		t.Errorf("expected sweep every 30m, got %s", cfg.Schedule.SweepEvery.Std())
	}
	if cfg.Schedule.ReportHour != 18 {
		t.Errorf("expected report hour 18, got %d", cfg.Schedule.ReportHour)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Schedule.DigestHour != 9 {
		t.Errorf("expected default digest hour 9, got %d", cfg.Schedule.DigestHour)
	}
	if cfg.Report.QuoteTimeout.Std() != 5*time.Second {
		t.Errorf("expected default quote timeout 5s, got %s", cfg.Report.QuoteTimeout.Std())
	}
}

func TestParseRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad timezone", "timezone: Mars/Olympus"},
		{"open after close", "market:\n  open_hour: 22\n  close_hour: 8"},
		{"report hour out of range", "schedule:\n  report_hour: 25"},
		{"zero chunk size", "message:\n  chunk_size: 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parse([]byte(tc.yaml)); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Discord.TokenEnv != "DISCORD_TOKEN" {
		t.Errorf("expected token env 'DISCORD_TOKEN', got %q", cfg.Discord.TokenEnv)
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}
