package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/config"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	outputFmt  string
	debugLogs  bool
	jsonLogs   bool
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "atscheck",
	Short: "Score resumes and cover letters for ATS compatibility",
	Long: `atscheck scores a resume or cover letter against a job description
the way an applicant tracking system would.

It provides:
  - Keyword, skills, title and experience matching for resumes
  - Narrative, personalization and tone checks for cover letters
  - A local score history to track how revisions change your score
  - MCP server for AI assistant integration`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: $"+config.EnvConfigPath+" or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json)")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "write logs as JSON")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	path, err := config.ResolvePath(configPath)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	configPath = path

	switch outputFmt {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format: %s (use table or json)", outputFmt)
	}
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "atscheck %s\n", version)
		fmt.Fprintf(w, "  commit: %s\n", commit)
		fmt.Fprintf(w, "  built:  %s\n", buildTime)
	},
}
