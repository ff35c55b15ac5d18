package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attunetutor/attune/internal/config"
	"github.com/attunetutor/attune/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "attune",
	Short: "Emotion-aware adaptive tutoring service",
	Long:  "Attune is a tutoring controller that watches the learner's emotional state and adapts explanations in response.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ATTUNE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to TOML config file (overrides ATTUNE_CONFIG env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then ATTUNE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadConfig resolves and loads the TOML config, with the --config flag
// taking priority over ATTUNE_CONFIG and the XDG default.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
