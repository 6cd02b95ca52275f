package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/logging"
	"github.com/carbonflow/carbonflow/internal/model"
)

// CategoryImprovement compares one impact category of an alternative
// against the baseline. Positive percentages are improvements.
type CategoryImprovement struct {
	Category           factors.ImpactCategory `json:"category" yaml:"category"`
	Baseline           float64                `json:"baseline" yaml:"baseline"`
	Alternative        float64                `json:"alternative" yaml:"alternative"`
	ImprovementPercent float64                `json:"improvement_percent" yaml:"improvement_percent"`
}

// AlternativeComparison is one alternative measured against the baseline.
type AlternativeComparison struct {
	Name            string                `json:"name" yaml:"name"`
	Result          *model.LCAResult      `json:"result" yaml:"result"`
	Improvements    []CategoryImprovement `json:"improvements" yaml:"improvements"`
	MeanImprovement float64               `json:"mean_improvement" yaml:"mean_improvement"`
	// TradeOff is set when some categories improve while others regress.
	TradeOff bool `json:"trade_off" yaml:"trade_off"`
}

// Improvement returns the comparison of category c.
func (a AlternativeComparison) Improvement(c factors.ImpactCategory) (CategoryImprovement, bool) {
	for _, i := range a.Improvements {
		if i.Category == c {
			return i, true
		}
	}
	return CategoryImprovement{}, false
}

// Comparison is the outcome of CompareProducts.
type Comparison struct {
	Baseline     *model.LCAResult        `json:"baseline" yaml:"baseline"`
	Alternatives []AlternativeComparison `json:"alternatives" yaml:"alternatives"`
	// DominatingAlternative names the alternative with the highest mean improvement.
	DominatingAlternative string   `json:"dominating_alternative" yaml:"dominating_alternative"`
	TradeOffs             []string `json:"trade_offs,omitempty" yaml:"trade_offs,omitempty"`
}

// CompareProducts assesses the baseline and every alternative with the
// same configuration, concurrently. Any failed assessment fails the
// comparison.
func (s *Service) CompareProducts(
	ctx context.Context,
	baseline model.ProductSystem,
	alternatives []model.ProductSystem,
	cfg lcaconfig.CalculationConfig,
) (*Comparison, error) {
	if len(alternatives) == 0 {
		return nil, ErrNoAlternatives
	}

	products := append([]model.ProductSystem{baseline}, alternatives...)
	results := make([]*model.LCAResult, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range products {
		g.Go(func() error {
			res, err := s.Assess(gctx, p, cfg)
			if err != nil {
				return fmt.Errorf("assessing %s: %w", productName(p, i), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := &Comparison{Baseline: results[0]}
	best := -1
	for i, alt := range alternatives {
		ac := compareResults(results[0], results[i+1], cfg.ImpactCategories)
		ac.Name = productName(alt, i+1)
		if ac.TradeOff {
			cmp.TradeOffs = append(cmp.TradeOffs, tradeOffText(ac))
		}
		if best < 0 || ac.MeanImprovement > cmp.Alternatives[best].MeanImprovement {
			best = i
		}
		cmp.Alternatives = append(cmp.Alternatives, ac)
	}
	cmp.DominatingAlternative = cmp.Alternatives[best].Name

	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "service").
		Int("alternatives", len(alternatives)).
		Str("dominating", cmp.DominatingAlternative).
		Msg("comparison completed")
	return cmp, nil
}

// ImprovementPercent is (baseline-alternative)/baseline*100, or 0 when
// the baseline is 0.
func ImprovementPercent(baseline, alternative float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (baseline - alternative) / baseline * 100
}

func compareResults(base, alt *model.LCAResult, cats []factors.ImpactCategory) AlternativeComparison {
	ac := AlternativeComparison{Result: alt}
	var improved, regressed bool
	var sum float64
	for _, c := range cats {
		b, _ := base.Impact(c)
		a, _ := alt.Impact(c)
		ci := CategoryImprovement{
			Category:           c,
			Baseline:           b.Value,
			Alternative:        a.Value,
			ImprovementPercent: ImprovementPercent(b.Value, a.Value),
		}
		switch {
		case ci.ImprovementPercent > 0:
			improved = true
		case ci.ImprovementPercent < 0:
			regressed = true
		}
		sum += ci.ImprovementPercent
		ac.Improvements = append(ac.Improvements, ci)
	}
	if len(cats) > 0 {
		ac.MeanImprovement = sum / float64(len(cats))
	}
	ac.TradeOff = improved && regressed
	return ac
}

func tradeOffText(ac AlternativeComparison) string {
	var better, worse []string
	for _, i := range ac.Improvements {
		switch {
		case i.ImprovementPercent > 0:
			better = append(better, string(i.Category))
		case i.ImprovementPercent < 0:
			worse = append(worse, string(i.Category))
		}
	}
	return fmt.Sprintf("%s improves %s but worsens %s",
		ac.Name, strings.Join(better, ", "), strings.Join(worse, ", "))
}

func productName(p model.ProductSystem, i int) string {
	if p.Name != "" {
		return p.Name
	}
	if i == 0 {
		return "baseline"
	}
	return fmt.Sprintf("alternative %d", i)
}
