package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/ingest"
	"github.com/carbonflow/carbonflow/internal/service"
)

func newHotspotsCmd() *cobra.Command {
	var (
		flags calcFlags
		topN  int
	)

	cmd := &cobra.Command{
		Use:   "hotspots <product-file>",
		Short: "List the processes, stages, materials and energy flows that dominate GWP",
		Example: `  carbonflow hotspots bottle.yaml --top 3
  carbonflow hotspots bottle.yaml --no-uncertainty -o json`,
		Args: cobra.ExactArgs(1),
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

			report, err := a.svc.GetHotspotAnalysis(session.ID(), topN)
			if err != nil {
				return err
			}
			return emit(cmd, report, func(p *printer) error {
				renderHotspots(p, report)
				return p.err
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&topN, "top", service.DefaultTopN, "entries listed per dimension")
	return cmd
}

func renderHotspots(p *printer, r *service.HotspotReport) {
	p.title("HOTSPOTS")
	p.field("Study", r.StudyID)
	p.field("Total GWP", p.qty(r.Total, r.Unit))

	rows := make([][]string, 0, len(r.Hotspots))
	for _, h := range r.Hotspots {
		rows = append(rows, []string{
			h.Dimension, fmt.Sprint(h.Rank), h.Label, p.qty(h.AbsoluteValue, h.Unit), pct(h.RelativeContribution),
		})
	}
	p.section("Contributors")
	p.table([]string{"DIMENSION", "RANK", "NAME", "VALUE", "SHARE"}, rows)

	if len(r.Suggestions) > 0 {
		p.section("Suggestions")
		for _, s := range r.Suggestions {
			p.bullet(s)
		}
	}
}
