package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/config"
	"github.com/carbonflow/carbonflow/internal/engine"
	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/logging"
	"github.com/carbonflow/carbonflow/internal/matching"
	"github.com/carbonflow/carbonflow/internal/service"
)

// app bundles the service built from the active configuration.
type app struct {
	cfg      *config.Config
	svc      *service.Service
	mappings *matching.MappingStore
}

// newApp builds the engine and service, loading saved substance mappings.
func newApp(ctx context.Context) *app {
	cfg := config.GetGlobalConfig()
	log := logging.FromContext(ctx)

	store := matching.NewMappingStore()
	if n, err := store.LoadFile(cfg.MappingsPath()); err != nil {
		log.Warn().Ctx(ctx).Err(err).Str("path", cfg.MappingsPath()).Msg("ignoring unreadable substance mappings")
	} else if n > 0 {
		log.Debug().Ctx(ctx).Int("mappings", n).Msg("substance mappings loaded")
	}

	eng := engine.New(
		engine.WithMappingStore(store),
		engine.WithSimilarityThreshold(cfg.LCA.SimilarityThreshold),
	)
	svc := service.New(eng,
		service.WithBatchSize(cfg.LCA.BatchSize),
		service.WithConcurrency(cfg.LCA.Concurrency),
	)
	return &app{cfg: cfg, svc: svc, mappings: store}
}

// close evicts completed sessions past the configured retention.
func (a *app) close(ctx context.Context) {
	retention, err := a.cfg.Retention()
	if err != nil {
		logging.FromContext(ctx).Warn().Ctx(ctx).Err(err).Msg("invalid session retention, keeping sessions")
		return
	}
	if evicted := a.svc.Engine().CleanupCompletedSessions(retention); len(evicted) > 0 {
		logging.FromContext(ctx).Debug().Ctx(ctx).Strs("sessions", evicted).Msg("expired sessions removed")
	}
}

// calcFlags are the calculation options shared by the assessment commands.
type calcFlags struct {
	preset        string
	overrides     string
	factorTable   string
	categories    []string
	iterations    int
	seed          uint64
	workers       int
	confidence    float64
	allocation    float64
	noUncertainty bool
}

func (f *calcFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.preset, "preset", "",
		"configuration preset: "+strings.Join(lcaconfig.PresetNames(), ", ")+" (default from config)")
	fs.StringVar(&f.overrides, "overrides", "", "YAML file with calculation config overrides")
	fs.StringVar(&f.factorTable, "factor-table", "", "YAML characterization factor table replacing the preset's")
	fs.StringSliceVar(&f.categories, "category", nil, "impact categories to assess (repeatable)")
	fs.IntVar(&f.iterations, "iterations", 0, "Monte Carlo iterations (enables uncertainty analysis)")
	fs.Uint64Var(&f.seed, "seed", 0, "Monte Carlo seed for reproducible results")
	fs.IntVar(&f.workers, "workers", 0, "Monte Carlo worker goroutines (default GOMAXPROCS)")
	fs.Float64Var(&f.confidence, "confidence", 0, "confidence level of the uncertainty interval")
	fs.Float64Var(&f.allocation, "allocation", 0, "allocation factor applied to the inventory, in (0, 1]")
	fs.BoolVar(&f.noUncertainty, "no-uncertainty", false, "skip Monte Carlo uncertainty analysis")
}

// resolve builds the calculation config. An explicit --preset wins over
// fallback, which wins over the configured preset.
func (f *calcFlags) resolve(cmd *cobra.Command, cfg *config.Config, fallback string) (lcaconfig.CalculationConfig, error) {
	preset := cfg.LCA.Preset
	if fallback != "" {
		preset = fallback
	}
	if f.preset != "" {
		preset = f.preset
	}

	var (
		overrides lcaconfig.CalculationConfig
		custom    bool
		err       error
	)
	if f.overrides != "" {
		if overrides, err = lcaconfig.LoadOverrides(f.overrides); err != nil {
			return lcaconfig.CalculationConfig{}, err
		}
		custom = true
	}

	tablePath := cfg.LCA.FactorTable
	if f.factorTable != "" {
		tablePath = f.factorTable
	}
	if tablePath != "" {
		if overrides.Factors, err = factors.LoadTable(tablePath); err != nil {
			return lcaconfig.CalculationConfig{}, err
		}
		custom = true
	}

	fs := cmd.Flags()
	if fs.Changed("category") {
		overrides.ImpactCategories = nil
		for _, c := range f.categories {
			overrides.ImpactCategories = append(overrides.ImpactCategories, factors.ImpactCategory(strings.TrimSpace(c)))
		}
		custom = true
	}
	if fs.Changed("iterations") {
		overrides.Uncertainty.Enabled = true
		overrides.Uncertainty.Iterations = f.iterations
		custom = true
	}
	if fs.Changed("workers") {
		overrides.Uncertainty.Workers = f.workers
		custom = true
	}
	if fs.Changed("confidence") {
		overrides.Uncertainty.ConfidenceLevel = f.confidence
		custom = true
	}
	if fs.Changed("allocation") {
		overrides.Allocation.Factor = f.allocation
		custom = true
	}
	seed := cfg.LCA.Seed
	if fs.Changed("seed") {
		seed = f.seed
	}
	if seed != 0 {
		overrides.Uncertainty.Seed = seed
		custom = true
	}

	var calc lcaconfig.CalculationConfig
	if custom {
		calc, err = lcaconfig.CreateCustomConfig(preset, overrides)
	} else {
		calc, err = lcaconfig.Preset(preset)
	}
	if err != nil {
		return lcaconfig.CalculationConfig{}, fmt.Errorf("building calculation config: %w", err)
	}
	if f.noUncertainty {
		calc = lcaconfig.WithoutUncertainty(calc)
	}
	return calc, nil
}
