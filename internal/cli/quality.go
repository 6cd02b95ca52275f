package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/ingest"
	"github.com/carbonflow/carbonflow/internal/service"
)

func newQualityCmd() *cobra.Command {
	var flags calcFlags

	cmd := &cobra.Command{
		Use:   "quality <product-file>",
		Short: "Report the data-quality scores of an assessment with an improvement plan",
		Long: `Scores run from 1 (best) to 5 (worst) on the five pedigree dimensions:
reliability, completeness, temporal, geographical and technological
correlation. Dimensions scoring 3 or worse get an improvement action.`,
		Example: `  carbonflow quality bottle.yaml --no-uncertainty`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := newApp(ctx)
			defer a.close(ctx)

			calc, err := flags.resolve(cmd, a.cfg, "")
			if err != nil {
				return err
			}
			sys, err := ingest.LoadProductSystem(ctx, args[0])
			if err != nil {
				return err
			}
			session, err := a.svc.Start(ctx, *sys, calc)
			if err != nil {
				return err
			}
			if _, err = a.svc.WaitForCompletion(ctx, session); err != nil {
				return fmt.Errorf("assessing %s: %w", sys.Name, err)
			}

			report, err := a.svc.GetDataQualityReport(session.ID())
			if err != nil {
				return err
			}
			return emit(cmd, report, func(p *printer) error {
				renderQuality(p, report)
				return p.err
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func renderQuality(p *printer, r *service.DataQualityReport) {
	p.title("DATA QUALITY")
	p.field("Study", r.StudyID)
	p.field("Overall", fmt.Sprintf("%.1f (%s)", r.OverallScore, r.OverallLevel))

	rows := make([][]string, 0, len(r.Dimensions))
	for _, d := range r.Dimensions {
		rows = append(rows, []string{d.Name, fmt.Sprint(d.Score), d.Level})
	}
	p.section("Dimensions")
	p.table([]string{"DIMENSION", "SCORE", "LEVEL"}, rows)

	if len(r.Plan) == 0 {
		return
	}
	p.section("Improvement plan")
	for _, a := range r.Plan {
		p.bullet(fmt.Sprintf("[%s] %s: %s", a.Priority, a.Dimension, a.Action))
	}
}
