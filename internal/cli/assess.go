package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/engine"
	"github.com/carbonflow/carbonflow/internal/ingest"
	"github.com/carbonflow/carbonflow/internal/model"
)

// topContributors is the number of breakdown rows shown in table output.
const topContributors = 5

// newAssessCmd creates the assess command.
func newAssessCmd() *cobra.Command {
	var (
		flags     calcFlags
		showSteps bool
	)

	cmd := &cobra.Command{
		Use:   "assess <product-file>",
		Short: "Run a full life cycle assessment of a product system",
		Long: `Runs the eight calculation steps (validation, goal and scope, inventory,
impact assessment, contribution analysis, uncertainty analysis, data quality,
finalization) over the product system and prints the result.`,
		Example: `  # Assess with the configured preset
  carbonflow assess bottle.yaml

  # Research-grade assessment with custom overrides
  carbonflow assess bottle.yaml --preset research --overrides study.yaml

  # Show the calculation steps
  carbonflow assess bottle.yaml --steps`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssess(cmd, args[0], &flags, showSteps)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showSteps, "steps", false, "print the calculation steps after the result")
	return cmd
}

func runAssess(cmd *cobra.Command, path string, flags *calcFlags, showSteps bool) error {
	ctx := cmd.Context()
	a := newApp(ctx)
	defer a.close(ctx)

	calc, err := flags.resolve(cmd, a.cfg, "")
	if err != nil {
		return err
	}
	sys, err := ingest.LoadProductSystem(ctx, path)
	if err != nil {
		return err
	}

	session, err := a.svc.Start(ctx, *sys, calc)
	if err != nil {
		return err
	}
	res, waitErr := a.svc.WaitForCompletion(ctx, session)
	if showSteps {
		renderSteps(newPrinter(cmd.ErrOrStderr(), 0), session.Snapshot())
	}
	if waitErr != nil {
		return fmt.Errorf("assessing %s: %w", sys.Name, waitErr)
	}

	return emit(cmd, res, func(p *printer) error {
		renderResult(p, res)
		return p.err
	})
}

// renderResult prints the headline sections of an LCA result.
func renderResult(p *printer, res *model.LCAResult) {
	info := res.SystemInfo
	p.title("LCA RESULT: " + info.ProductName)
	p.field("Study", info.StudyID)
	p.field("Functional unit", info.FunctionalUnit)
	p.field("System boundary", info.SystemBoundary)
	p.field("Impact method", info.ImpactMethod)
	p.field("Configuration", info.ConfigName)

	p.section("Impacts")
	rows := make([][]string, 0, len(res.Impacts))
	for _, i := range res.Impacts {
		rows = append(rows, []string{i.Name, p.num(i.Value), i.Unit, fmt.Sprint(len(i.UnmatchedSubstances))})
	}
	p.table([]string{"CATEGORY", "VALUE", "UNIT", "UNMATCHED"}, rows)
	p.field("GWP per functional unit", p.num(info.PerFunctionalUnit))

	renderBreakdown(p, "Contribution by stage", res.Contributions.ByStage)
	renderBreakdown(p, "Contribution by process", res.Contributions.ByProcess)

	p.section("Inventory")
	p.field("Entries", fmt.Sprint(len(res.Inventory.Entries)))
	p.field("Total mass", p.qty(res.Inventory.TotalMass, res.Inventory.MassUnit))
	p.field("Total energy", p.qty(res.Inventory.TotalEnergy, res.Inventory.EnergyUnit))

	if u := res.Uncertainty; u != nil {
		renderUncertainty(p, u)
	}

	p.section("Data quality")
	p.field("Overall score", fmt.Sprintf("%.1f (1 best, 5 worst)", res.DataQuality.OverallScore))

	if len(info.Warnings) > 0 {
		p.section("Warnings")
		for _, w := range info.Warnings {
			p.warning(w)
		}
	}
}

func renderBreakdown(p *printer, title string, b model.Breakdown) {
	if len(b) == 0 {
		return
	}
	p.section(title)
	rows := make([][]string, 0, topContributors)
	for _, e := range b.Top(topContributors) {
		rows = append(rows, []string{fmt.Sprint(e.Rank), e.Label, p.qty(e.AbsoluteValue, e.Unit), pct(e.RelativeContribution)})
	}
	p.table([]string{"RANK", "NAME", "VALUE", "SHARE"}, rows)
}

func renderUncertainty(p *printer, u *model.UncertaintyResult) {
	p.section("Uncertainty")
	p.field("Iterations", fmt.Sprint(u.Iterations))
	p.field("Mean", p.qty(u.Mean, u.Unit))
	p.field("Standard deviation", p.num(u.StdDev))
	p.field(fmt.Sprintf("%.0f%% interval", u.ConfidenceLevel*100),
		fmt.Sprintf("%s to %s", p.num(u.LowerBound), p.num(u.UpperBound)))
	p.field("P5 / P95", fmt.Sprintf("%s / %s", p.num(u.P5), p.num(u.P95)))
	p.field("Coefficient of variation", pct(u.CoefficientOfVariation))
}

// renderSteps prints the step table of a session snapshot.
func renderSteps(p *printer, snap engine.SessionSnapshot) {
	p.section("Steps of session " + snap.ID)
	rows := make([][]string, 0, len(snap.Steps))
	for _, s := range snap.Steps {
		rows = append(rows, []string{string(s.Name), string(s.Status), pct(s.Progress), s.Error})
	}
	p.table([]string{"STEP", "STATUS", "PROGRESS", "ERROR"}, rows)
}
