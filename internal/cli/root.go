// Package cli implements the carbonflow command line: assessments,
// carbon footprints, comparisons, batch runs, reports and flow matching
// over product systems read from YAML or JSON files.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/config"
	"github.com/carbonflow/carbonflow/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root command for the carbonflow CLI.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configPath string
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "carbonflow",
		Short:         "Life cycle assessment of product systems",
		Long:          "carbonflow: ISO 14040/14044 life cycle assessments and carbon footprints of product systems",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), configPath, projectDir)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default: project or ~/.carbonflow/config.yaml)")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "", "project directory holding .carbonflow/")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json or yaml (default from config)")

	cmd.AddCommand(
		newAssessCmd(), newFootprintCmd(), newCompareCmd(), newBatchCmd(),
		newHotspotsCmd(), newQualityCmd(), newValidateCmd(), newMatchCmd(),
		newConfigCmd(),
	)
	return cmd
}

// loadConfig reads an explicit config file, or the global file merged with
// the project's when a project directory is found.
func loadConfig(ctx context.Context, configPath, projectFlag string) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg.ApplyEnv()
		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	dir := config.ResolveProjectDir(ctx, projectFlag, cwd)
	config.SetResolvedProjectDir(dir)
	return config.NewWithProjectDir(ctx, dir), nil
}

const rootCmdExample = `  # Assess a product system with the configured preset
  carbonflow assess bottle.yaml

  # Professional assessment with a reproducible Monte Carlo run
  carbonflow assess bottle.yaml --preset professional --seed 42

  # Carbon footprint with equivalencies, as JSON
  carbonflow footprint bottle.yaml -o json

  # Compare a redesign against the current product
  carbonflow compare bottle.yaml bottle-recycled.yaml

  # Assess a catalog of products, sorted by GWP
  carbonflow batch catalog.yaml --sort gwp:desc

  # Find how a substance name resolves to characterization factors
  carbonflow match "Kohlendioxid" --flow-category emission

  # Initialize project configuration
  carbonflow config init`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd(), newConfigPresetsCmd(), newConfigShowCmd())
	return cmd
}
