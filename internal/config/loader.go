package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath names the environment variable that overrides the config location
const EnvConfigPath = "ATSCHECK_CONFIG"

// DefaultPath is used when neither a flag nor the environment names a file
const DefaultPath = "~/.config/atscheck/config.toml"

// ResolvePath picks the config file: explicit flag, then ATSCHECK_CONFIG,
// then DefaultPath. The result has ~ expanded.
func ResolvePath(flagValue string) (string, error) {
	path := flagValue
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath
	}
	return expandPath(path)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'atscheck config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return finish(cfg)
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist. Scoring works without any setup.
func LoadOrDefault(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	if _, err := os.Stat(expandedPath); errors.Is(err, os.ErrNotExist) {
		return finish(Default())
	}
	return Load(expandedPath)
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

func (c *Config) expandPaths() error {
	var err error
	c.Database.Path, err = expandPath(c.Database.Path)
	return err
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	if c.Scoring.MaxConcurrency < 1 || c.Scoring.MaxConcurrency > 64 {
		errs = append(errs, errors.New("scoring.max_concurrency must be between 1 and 64"))
	}
	lists := []struct {
		name    string
		entries []string
	}{
		{"scoring.skill_phrases", c.Scoring.SkillPhrases},
		{"scoring.stop_words", c.Scoring.StopWords},
		{"scoring.call_to_action_phrases", c.Scoring.CallToActionPhrases},
		{"scoring.generic_phrases", c.Scoring.GenericPhrases},
	}
	for _, l := range lists {
		for i, entry := range l.entries {
			if strings.TrimSpace(entry) == "" {
				errs = append(errs, fmt.Errorf("%s[%d] is empty", l.name, i))
			}
		}
	}

	if c.Watch.DebounceMS < 0 || c.Watch.DebounceMS > 60000 {
		errs = append(errs, errors.New("watch.debounce_ms must be between 0 and 60000"))
	}

	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates the directory holding the history database
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
