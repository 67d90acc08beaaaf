package config

import (
	"time"

	"github.com/vijay-prabhu/atscheck/internal/ats"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Logging  LoggingConfig  `toml:"logging"`
	Watch    WatchConfig    `toml:"watch"`
	MCP      MCPConfig      `toml:"mcp"`
}

// DatabaseConfig contains score history settings
type DatabaseConfig struct {
	Path        string `toml:"path"`
	SaveHistory bool   `toml:"save_history"`
}

// ScoringConfig holds the lexical tables and batch limits
type ScoringConfig struct {
	SkillPhrases        []string `toml:"skill_phrases"`
	StopWords           []string `toml:"stop_words"`
	CallToActionPhrases []string `toml:"call_to_action_phrases"`
	GenericPhrases      []string `toml:"generic_phrases"`
	MaxConcurrency      int      `toml:"max_concurrency"`
}

// Tables converts the scoring section into scorer tables
func (s ScoringConfig) Tables() ats.Tables {
	return ats.Tables{
		SkillPhrases:        s.SkillPhrases,
		StopWords:           s.StopWords,
		CallToActionPhrases: s.CallToActionPhrases,
		GenericPhrases:      s.GenericPhrases,
	}
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	JSON  bool `toml:"json"`
	Debug bool `toml:"debug"`
}

// WatchConfig contains settings for the watch command
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Delay returns the debounce interval as a duration
func (w WatchConfig) Delay() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	tables := ats.DefaultTables()

	return &Config{
		Database: DatabaseConfig{
			Path:        "~/.local/share/atscheck/atscheck.db",
			SaveHistory: true,
		},
		Scoring: ScoringConfig{
			SkillPhrases:        tables.SkillPhrases,
			StopWords:           tables.StopWords,
			CallToActionPhrases: tables.CallToActionPhrases,
			GenericPhrases:      tables.GenericPhrases,
			MaxConcurrency:      4,
		},
		Logging: LoggingConfig{
			JSON:  false,
			Debug: false,
		},
		Watch: WatchConfig{
			DebounceMS: 800,
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
