package service

import (
	"context"

	"github.com/carbonflow/carbonflow/internal/engine/batch"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/logging"
	"github.com/carbonflow/carbonflow/internal/model"
)

// BatchItem is the outcome of one product of a batch.
type BatchItem struct {
	Index  int              `json:"index" yaml:"index"`
	Name   string           `json:"name" yaml:"name"`
	Result *model.LCAResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the product was assessed.
func (b BatchItem) OK() bool { return b.Error == "" }

// BatchReport collects every product's outcome.
type BatchReport struct {
	Items     []BatchItem `json:"items" yaml:"items"`
	Succeeded int         `json:"succeeded" yaml:"succeeded"`
	Failed    int         `json:"failed" yaml:"failed"`
}

// BatchCalculation assesses every product independently with cfg. A
// failed product is recorded in its item and does not stop the batch;
// only a cancelled ctx ends it early, returning the items finished so far.
func (s *Service) BatchCalculation(
	ctx context.Context,
	products []model.ProductSystem,
	cfg lcaconfig.CalculationConfig,
) (*BatchReport, error) {
	log := logging.FromContext(ctx)

	proc, err := batch.NewProcessor[model.ProductSystem, *model.LCAResult](s.batchSize)
	if err != nil {
		return nil, err
	}
	proc.WithConcurrency(s.concurrency).WithProgressCallback(func(p batch.ProgressSnapshot) {
		log.Debug().Ctx(ctx).
			Str("component", "service").
			Int("processed", p.ProcessedItems).
			Int("failed", p.FailedItems).
			Int("total", p.TotalItems).
			Float64("percent", p.PercentComplete).
			Msg("batch progress")
	})

	outcomes, runErr := proc.Run(ctx, products, func(ctx context.Context, _ int, p model.ProductSystem) (*model.LCAResult, error) {
		return s.Assess(ctx, p, cfg)
	})

	report := &BatchReport{}
	for _, o := range outcomes {
		item := BatchItem{Index: o.Index, Name: productName(products[o.Index], o.Index+1), Result: o.Value}
		if o.Err != nil {
			item.Error = o.Err.Error()
			report.Failed++
		} else {
			report.Succeeded++
		}
		report.Items = append(report.Items, item)
	}

	log.Info().Ctx(ctx).
		Str("component", "service").
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("batch calculation finished")
	return report, runErr
}
