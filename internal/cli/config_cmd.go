package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/config"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
)

// ErrConfigExists is returned by config init when the file exists and
// --force is not set.
var ErrConfigExists = constError("configuration file already exists")

func newConfigInitCmd() *cobra.Command {
	var global, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Writes the default configuration to .carbonflow/config.yaml in the current
project, or to ~/.carbonflow/config.yaml with --global. Project directories
also get a .gitignore that keeps logs out of version control.`,
		Example: `  carbonflow config init
  carbonflow config init --global --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := initTargetDir(cmd, global)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, config.ConfigFileName)
			if global {
				path = config.DefaultConfigPath()
			}

			if _, statErr := os.Stat(path); statErr == nil && !force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
			}

			cfg := config.Defaults()
			cfg.SetConfigPath(path)
			if err = cfg.Save(); err != nil {
				return err
			}
			logger.Info().Ctx(cmd.Context()).Str("path", path).Bool("global", global).Msg("configuration written")
			cmd.Printf("Configuration written to %s\n", path)

			if !global {
				created, gitErr := config.EnsureGitignore(dir)
				if gitErr != nil {
					return gitErr
				}
				if created {
					cmd.Printf("Created %s\n", filepath.Join(dir, ".gitignore"))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "write the global configuration instead of the project's")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	return cmd
}

// initTargetDir returns the .carbonflow directory config init writes to:
// the global home, the resolved project, or ./.carbonflow.
func initTargetDir(cmd *cobra.Command, global bool) (string, error) {
	if global {
		return filepath.Dir(config.DefaultConfigPath()), nil
	}
	if dir := config.GetResolvedProjectDir(); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	flag, _ := cmd.Flags().GetString("project-dir")
	if flag != "" {
		return config.ResolveProjectDir(cmd.Context(), flag, cwd), nil
	}
	return filepath.Join(cwd, config.DirName), nil
}

func newConfigValidateCmd() *cobra.Command {
	var flags calcFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the active configuration and the calculation config it selects",
		Example: `  carbonflow config validate
  carbonflow config validate --preset research --overrides study.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration %s: %w", cfg.ConfigPath(), err)
			}

			calc, err := flags.resolve(cmd, cfg, "")
			if err != nil {
				return err
			}
			result := lcaconfig.ValidateConfig(calc)
			for _, w := range result.Warnings {
				cmd.PrintErrf("warning: %s\n", w)
			}
			if err = result.Err(); err != nil {
				return err
			}
			cmd.Printf("Configuration %s is valid (calculation config %s)\n", cfg.ConfigPath(), calc.Name)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// presetSummary is one row of config presets.
type presetSummary struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Method      string   `json:"impact_method" yaml:"impact_method"`
	Categories  []string `json:"impact_categories" yaml:"impact_categories"`
	Boundary    string   `json:"system_boundary" yaml:"system_boundary"`
	Iterations  int      `json:"monte_carlo_iterations" yaml:"monte_carlo_iterations"`
}

func newConfigPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the calculation configuration presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var presets []presetSummary
			for _, name := range lcaconfig.PresetNames() {
				calc, err := lcaconfig.Preset(name)
				if err != nil {
					return err
				}
				s := presetSummary{
					Name:        name,
					Description: calc.Description,
					Method:      calc.ImpactMethod,
					Boundary:    string(calc.Boundary.Type),
				}
				for _, c := range calc.ImpactCategories {
					s.Categories = append(s.Categories, string(c))
				}
				if calc.Uncertainty.Enabled {
					s.Iterations = calc.Uncertainty.Iterations
				}
				presets = append(presets, s)
			}

			return emit(cmd, presets, func(p *printer) error {
				p.title("CONFIGURATION PRESETS")
				rows := make([][]string, 0, len(presets))
				for _, s := range presets {
					iterations := "-"
					if s.Iterations > 0 {
						iterations = fmt.Sprint(s.Iterations)
					}
					rows = append(rows, []string{s.Name, s.Method, fmt.Sprint(len(s.Categories)), s.Boundary, iterations})
				}
				p.table([]string{"PRESET", "METHOD", "CATEGORIES", "BOUNDARY", "MONTE CARLO"}, rows)
				for _, s := range presets {
					p.field(s.Name, s.Description)
				}
				return p.err
			})
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Long:  "Prints the configuration after merging the global file, the project file and environment overrides.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			format, err := outputFormat(cmd, cfg)
			if err != nil {
				return err
			}
			if path := cfg.ConfigPath(); path != "" {
				cmd.PrintErrf("# %s\n", path)
			}
			if format == config.FormatTable {
				return writeYAML(cmd.OutOrStdout(), cfg)
			}
			return emit(cmd, cfg, nil)
		},
	}
}
