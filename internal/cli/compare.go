package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/ingest"
	"github.com/carbonflow/carbonflow/internal/service"
)

func newCompareCmd() *cobra.Command {
	var flags calcFlags

	cmd := &cobra.Command{
		Use:   "compare <baseline-file> <alternative-file>...",
		Short: "Compare alternative product designs against a baseline",
		Long: `Assesses the baseline and every alternative with the same configuration and
reports the improvement per impact category. Positive percentages are
improvements over the baseline. Alternatives that improve some categories
while worsening others are listed as trade-offs.`,
		Example: `  carbonflow compare bottle.yaml bottle-recycled.yaml bottle-glass.yaml --preset professional`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := newApp(ctx)
			defer a.close(ctx)

			calc, err := flags.resolve(cmd, a.cfg, "")
			if err != nil {
				return err
			}
			baseline, err := ingest.LoadProductSystem(ctx, args[0])
			if err != nil {
				return err
			}
			alternatives, err := ingest.LoadProducts(ctx, args[1:]...)
			if err != nil {
				return err
			}

			cmp, err := a.svc.CompareProducts(ctx, *baseline, alternatives, calc)
			if err != nil {
				return err
			}
			return emit(cmd, cmp, func(p *printer) error {
				renderComparison(p, baseline.Name, cmp)
				return p.err
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func renderComparison(p *printer, baseline string, cmp *service.Comparison) {
	p.title("COMPARISON AGAINST " + baseline)

	for _, alt := range cmp.Alternatives {
		p.section(alt.Name)
		rows := make([][]string, 0, len(alt.Improvements))
		for _, imp := range alt.Improvements {
			rows = append(rows, []string{
				string(imp.Category), p.num(imp.Baseline), p.num(imp.Alternative),
				fmt.Sprintf("%+.1f%%", imp.ImprovementPercent),
			})
		}
		p.table([]string{"CATEGORY", "BASELINE", "ALTERNATIVE", "IMPROVEMENT"}, rows)
		p.field("Mean improvement", fmt.Sprintf("%+.1f%%", alt.MeanImprovement))
	}

	p.section("Summary")
	p.field("Best alternative", cmp.DominatingAlternative)
	for _, t := range cmp.TradeOffs {
		p.warning(t)
	}
}
