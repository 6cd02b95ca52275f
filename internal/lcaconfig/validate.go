package lcaconfig

import (
	"fmt"
	"strings"

	"github.com/carbonflow/carbonflow/internal/factors"
)

// Validation limits.
const (
	MinConfidenceLevel   = 0.5
	MaxConfidenceLevel   = 1.0
	MinUsefulIterations  = 100
	MaxMonteCarloSamples = 1_000_000
)

// ValidationResult collects configuration problems. Errors make a config
// unusable; warnings leave the decision to the caller.
type ValidationResult struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Err returns a *ConfigurationError when the result has errors.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &ConfigurationError{Errors: r.Errors, Warnings: r.Warnings}
}

// ConfigurationError reports an invalid calculation config.
type ConfigurationError struct {
	Errors   []string
	Warnings []string
}

func (e *ConfigurationError) Error() string {
	return "invalid calculation config: " + strings.Join(e.Errors, "; ")
}

// ValidateConfig checks cfg without failing fast.
func ValidateConfig(cfg CalculationConfig) ValidationResult {
	var r ValidationResult
	errorf := func(format string, args ...any) { r.Errors = append(r.Errors, fmt.Sprintf(format, args...)) }
	warnf := func(format string, args ...any) { r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...)) }

	if strings.TrimSpace(cfg.ImpactMethod) == "" {
		errorf("impact method is required")
	}

	if len(cfg.ImpactCategories) == 0 {
		errorf("at least one impact category is required")
	}
	for _, c := range cfg.ImpactCategories {
		if !c.Valid() {
			errorf("unknown impact category %q", c)
		}
	}

	if len(cfg.Boundary.Stages) == 0 {
		errorf("system boundary must include at least one lifecycle stage")
	}
	for _, s := range cfg.Boundary.Stages {
		if !s.Valid() {
			errorf("unknown lifecycle stage %q in system boundary", s)
		}
	}

	cutoffs := []struct {
		name  string
		value float64
	}{
		{"mass", cfg.Cutoff.Mass},
		{"energy", cfg.Cutoff.Energy},
		{"environmental", cfg.Cutoff.Environmental},
	}
	for _, c := range cutoffs {
		if c.value < 0 || c.value > 1 {
			errorf("%s cutoff %g must be between 0 and 1", c.name, c.value)
		}
	}

	if f := cfg.Allocation.Factor; f <= 0 || f > 1 {
		errorf("allocation factor %g must be in (0, 1]", f)
	}

	u := cfg.Uncertainty
	if u.ConfidenceLevel < MinConfidenceLevel || u.ConfidenceLevel > MaxConfidenceLevel {
		errorf("confidence level %g must be between %g and %g", u.ConfidenceLevel, MinConfidenceLevel, MaxConfidenceLevel)
	}
	if u.Iterations < 0 || u.Iterations > MaxMonteCarloSamples {
		errorf("Monte Carlo iterations %d must be between 0 and %d", u.Iterations, MaxMonteCarloSamples)
	}
	if u.Perturbation < 0 || u.Perturbation >= 1 {
		errorf("perturbation %g must be in [0, 1)", u.Perturbation)
	}
	if u.Enabled && u.Iterations < MinUsefulIterations {
		warnf("Monte Carlo iterations %d below %d give unstable statistics", u.Iterations, MinUsefulIterations)
	}

	switch cfg.StageAttribution {
	case "", AttributeEmissions:
	case AttributeNodeCount:
		warnf("stage attribution %q approximates stage contributions by node count", AttributeNodeCount)
	default:
		errorf("unknown stage attribution %q", cfg.StageAttribution)
	}

	if cfg.Factors == nil {
		errorf("characterization factor table is not set")
	} else {
		if !cfg.Factors.HasCategory(factors.GWP) {
			warnf("factor table %q has no GWP factors", cfg.Factors.Name())
		}
		for _, c := range cfg.ImpactCategories {
			if c.Valid() && !cfg.Factors.HasCategory(c) {
				warnf("factor table %q has no factors for %s; its result will be zero", cfg.Factors.Name(), c)
			}
		}
	}

	r.Valid = len(r.Errors) == 0
	return r
}
