package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avnordli/matchcast/internal/ingest"
	"github.com/avnordli/matchcast/internal/playback"
	"github.com/avnordli/matchcast/internal/simulate"
	"github.com/avnordli/matchcast/internal/timeline"
)

// Config is the YAML session configuration. Durations are plain
// numbers (milliseconds or seconds as named) so the file stays easy
// to hand-edit.
type Config struct {
	Session struct {
		PreKickoffSeconds    float64 `yaml:"pre_kickoff_seconds"`
		MatchDurationSeconds float64 `yaml:"match_duration_seconds"`
	} `yaml:"session"`

	Playback struct {
		TickIntervalMS int     `yaml:"tick_interval_ms"`
		SecondsPerTick float64 `yaml:"seconds_per_tick"`
		LeadInSeconds  float64 `yaml:"lead_in_seconds"`
	} `yaml:"playback"`

	Chat struct {
		Enabled            bool    `yaml:"enabled"`
		MinIntervalSeconds float64 `yaml:"min_interval_seconds"`
		MaxIntervalSeconds float64 `yaml:"max_interval_seconds"`
		Seed               int64   `yaml:"seed"`
	} `yaml:"chat"`

	Match struct {
		// Preload loads the whole script in one batch at session
		// start; otherwise the simulator drips events as live time
		// reaches them.
		Preload bool `yaml:"preload"`
		// Script is a YAML timeline file; empty uses the built-in
		// demo match.
		Script string `yaml:"script"`
	} `yaml:"match"`

	Ingest struct {
		WebSocketURL string `yaml:"websocket_url"`
		NATS         struct {
			Enabled bool   `yaml:"enabled"`
			URL     string `yaml:"url"`
			Subject string `yaml:"subject"`
		} `yaml:"nats"`
	} `yaml:"ingest"`
}

func defaultAppConfig() Config {
	var cfg Config
	session := timeline.DefaultSessionConfig()
	cfg.Session.PreKickoffSeconds = session.PreKickoffSeconds
	cfg.Session.MatchDurationSeconds = session.MatchDurationSeconds

	pb := playback.DefaultConfig()
	cfg.Playback.TickIntervalMS = int(pb.TickInterval / time.Millisecond)
	cfg.Playback.SecondsPerTick = pb.SecondsPerTick
	cfg.Playback.LeadInSeconds = pb.LeadInSeconds

	chat := simulate.DefaultChatConfig()
	cfg.Chat.Enabled = true
	cfg.Chat.MinIntervalSeconds = chat.MinInterval.Seconds()
	cfg.Chat.MaxIntervalSeconds = chat.MaxInterval.Seconds()

	cfg.Match.Preload = true

	natsDefaults := ingest.DefaultNATSConfig()
	cfg.Ingest.NATS.URL = natsDefaults.URL
	cfg.Ingest.NATS.Subject = natsDefaults.Subject
	return cfg
}

func loadConfig(path string) (Config, error) {
	cfg := defaultAppConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) sessionConfig() timeline.SessionConfig {
	return timeline.SessionConfig{
		PreKickoffSeconds:    c.Session.PreKickoffSeconds,
		MatchDurationSeconds: c.Session.MatchDurationSeconds,
	}
}

func (c Config) playbackConfig() playback.Config {
	return playback.Config{
		TickInterval:   time.Duration(c.Playback.TickIntervalMS) * time.Millisecond,
		SecondsPerTick: c.Playback.SecondsPerTick,
		LeadInSeconds:  c.Playback.LeadInSeconds,
	}
}

func (c Config) chatConfig() simulate.ChatConfig {
	return simulate.ChatConfig{
		MinInterval: time.Duration(c.Chat.MinIntervalSeconds * float64(time.Second)),
		MaxInterval: time.Duration(c.Chat.MaxIntervalSeconds * float64(time.Second)),
		Seed:        c.Chat.Seed,
	}
}

func (c Config) natsConfig() ingest.NATSConfig {
	base := ingest.DefaultNATSConfig()
	if c.Ingest.NATS.URL != "" {
		base.URL = c.Ingest.NATS.URL
	}
	if c.Ingest.NATS.Subject != "" {
		base.Subject = c.Ingest.NATS.Subject
	}
	return base
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
