package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(w, "Config file already exists at %s\n", configPath)
		fmt.Fprintln(w, "Use 'atscheck config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("written config does not load: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Created config file at %s\n", configPath)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  1. Edit [scoring] to add the skills that matter in your field")
	fmt.Fprintln(w, "  2. Run 'atscheck score resume.pdf --job posting.txt'")
	fmt.Fprintln(w, "  3. Run 'atscheck trend resume.pdf' after each revision")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "No config file found, built-in defaults are in use.")
			fmt.Fprintln(w, "Run 'atscheck config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Fprintf(w, "# Config file: %s\n\n", configPath)
	fmt.Fprintln(w, string(data))
	return nil
}

const defaultConfig = `# atscheck configuration

[database]
path = "~/.local/share/atscheck/atscheck.db"
save_history = true   # store every score so 'atscheck trend' can compare revisions

[scoring]
max_concurrency = 4   # documents scored in parallel by 'atscheck score a b c'

# Skills looked up in job descriptions for the skills alignment factor
skill_phrases = [
    "python", "javascript", "react", "typescript", "node.js", "sql", "aws", "docker", "kubernetes", "git",
    "communication", "leadership", "problem-solving", "teamwork", "agile", "scrum", "project management",
    "data analysis", "customer service", "sales", "marketing", "design", "ui/ux", "ndis", "trauma-informed"
]

# Words never treated as keywords
stop_words = [
    "the", "and", "for", "with", "that", "this", "from", "your",
    "their", "will", "have", "been", "were", "was", "are", "has"
]

# Cover letter phrases that count as a call to action
call_to_action_phrases = [
    "look forward to",
    "would welcome",
    "eager to discuss",
    "available for"
]

# Boilerplate that lowers cover letter personalization
generic_phrases = [
    "to whom it may concern",
    "dear hiring manager",
    "i am writing to apply"
]

[logging]
json = false
debug = false

[watch]
debounce_ms = 800   # wait this long after the last save before re-scoring

[mcp]
enabled = true
transport = "stdio"
`
