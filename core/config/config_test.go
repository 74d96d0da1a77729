package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Dataset.ChatsDir != "./chats" || cfg.Dataset.ChannelsDir != "./channels" {
		t.Errorf("dataset dirs = %q, %q", cfg.Dataset.ChatsDir, cfg.Dataset.ChannelsDir)
	}
	if cfg.Dataset.FilePrefix != "tgstat" {
		t.Errorf("file_prefix = %q", cfg.Dataset.FilePrefix)
	}
	if cfg.Export.MaxRows != 100000 || cfg.Export.MaxCustom != 10000 {
		t.Errorf("export caps = %d, %d", cfg.Export.MaxRows, cfg.Export.MaxCustom)
	}
	if cfg.Stats.Backend != StatsBackendFile || cfg.Stats.FilePath == "" {
		t.Errorf("stats backend = %q path = %q", cfg.Stats.Backend, cfg.Stats.FilePath)
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.Telegram.Token = "" },
			wantErr: "token",
		},
		{
			name:    "unknown run mode",
			mutate:  func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" },
			wantErr: "run_mode",
		},
		{
			name: "webhook without url",
			mutate: func(c *Config) {
				c.Telegram.RunMode = RunModeWebhook
				c.Webhook.Listen = "0.0.0.0"
				c.Webhook.Port = 10000
			},
			wantErr: "webhook.url",
		},
		{
			name:    "postgres stats without host",
			mutate:  func(c *Config) { c.Stats.Backend = StatsBackendPostgres },
			wantErr: "database.host",
		},
		{
			name:    "bad rate limit exclusion",
			mutate:  func(c *Config) { c.RateLimit.ExcludeUpdates = []string{"carrier-pigeon"} },
			wantErr: "exclude_updates",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Normalize(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}
