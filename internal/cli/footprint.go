package cli

import (
	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/ingest"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/service"
)

func newFootprintCmd() *cobra.Command {
	var flags calcFlags

	cmd := &cobra.Command{
		Use:   "footprint <product-file>",
		Short: "Calculate the carbon footprint of a product system",
		Long: `Assesses global warming potential with the carbon_footprint preset unless
--preset names another one, and reports the stage and process breakdown,
everyday equivalencies and reduction recommendations.`,
		Example: `  carbonflow footprint bottle.yaml
  carbonflow footprint bottle.yaml --iterations 5000 --seed 7 -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := newApp(ctx)
			defer a.close(ctx)

			calc, err := flags.resolve(cmd, a.cfg, lcaconfig.PresetCarbonFootprint)
			if err != nil {
				return err
			}
			sys, err := ingest.LoadProductSystem(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := a.svc.Assess(ctx, *sys, calc)
			if err != nil {
				return err
			}
			fp, err := service.FootprintOf(res)
			if err != nil {
				return err
			}

			return emit(cmd, fp, func(p *printer) error {
				renderFootprint(p, res.SystemInfo.ProductName, fp)
				return p.err
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func renderFootprint(p *printer, product string, fp *service.CarbonFootprint) {
	p.title("CARBON FOOTPRINT: " + product)
	p.field("Total", p.qty(fp.Total, fp.Unit))
	p.field("Functional unit", fp.FunctionalUnit)
	p.field("Per functional unit", p.qty(fp.PerFunctionalUnit, fp.Unit))
	if fp.Equivalencies.DisplayText != "" {
		p.field("Equivalencies", fp.Equivalencies.DisplayText)
	}

	renderBreakdown(p, "By stage", fp.ByStage)
	renderBreakdown(p, "By process", fp.ByProcess)
	if fp.Uncertainty != nil {
		renderUncertainty(p, fp.Uncertainty)
	}

	if len(fp.Recommendations) > 0 {
		p.section("Recommendations")
		for _, r := range fp.Recommendations {
			p.bullet(r)
		}
	}
}
