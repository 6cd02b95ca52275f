package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/matching"
	"github.com/carbonflow/carbonflow/internal/model"
)

func newMatchCmd() *cobra.Command {
	var (
		flags        calcFlags
		flowCategory string
		unit         string
		stage        string
		emissionType string
		save         string
	)

	cmd := &cobra.Command{
		Use:   "match <flow-name>",
		Short: "Match a flow name against the characterization factor table",
		Long: `Shows which substance a flow name resolves to, how confident the match is
and which alternatives were considered. With --save the flow name is mapped
permanently to the given substance; saved mappings are consulted before any
fuzzy matching in later runs.`,
		Example: `  carbonflow match "Carbon dioxide, fossil"
  carbonflow match "natural gas combustion" --stage manufacture --emission-type combustion
  carbonflow match "PET granulate" --save plastic`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := newApp(ctx)
			defer a.close(ctx)

			calc, err := flags.resolve(cmd, a.cfg, "")
			if err != nil {
				return err
			}
			matcher := a.svc.Matcher(calc)

			if save != "" {
				if err = matcher.SaveUserMapping(ctx, args[0], save); err != nil {
					return fmt.Errorf("saving mapping %q: %w", args[0], err)
				}
				if err = a.mappings.SaveFile(a.cfg.MappingsPath()); err != nil {
					return err
				}
			}

			flow := model.Flow{
				Name:     args[0],
				Category: model.FlowCategory(strings.ToLower(flowCategory)),
				Unit:     unit,
			}
			var nc *matching.NodeContext
			if stage != "" || emissionType != "" {
				nc = &matching.NodeContext{LifecycleStage: stage, EmissionType: emissionType}
			}

			res := matcher.MatchFlowFactors(ctx, flow, nc)
			return emit(cmd, res, func(p *printer) error {
				renderMatch(p, res, calc)
				return p.err
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.preset, "preset", "", "configuration preset whose factor table is searched")
	fs.StringVar(&flags.factorTable, "factor-table", "", "YAML characterization factor table to search")
	fs.StringVar(&flowCategory, "flow-category", string(model.FlowEmission), "flow category")
	fs.StringVar(&unit, "unit", "kg", "flow unit")
	fs.StringVar(&stage, "stage", "", "lifecycle stage of the emitting process")
	fs.StringVar(&emissionType, "emission-type", "", "emission type of the emitting process")
	fs.StringVar(&save, "save", "", "permanently map the flow name to this substance")
	return cmd
}

func renderMatch(p *printer, r matching.FlowMatchResult, calc lcaconfig.CalculationConfig) {
	p.title("FLOW MATCH: " + r.Query)
	p.field("Factor table", calc.Factors.Name())
	p.field("Status", string(r.Status))
	p.field("Confidence", pct(r.Confidence))
	if r.Matched() {
		p.field("Substance", r.MatchedSubstance)
		p.field("Source", string(r.Source))
	}
	if r.LowConfidence() {
		p.warning("confidence below " + pct(matching.LowConfidenceThreshold) + "; factors are not applied")
	}

	if len(r.Factors) > 0 {
		rows := make([][]string, 0, len(r.Factors))
		for _, f := range r.Factors {
			rows = append(rows, []string{string(f.Category), p.num(f.Value), f.Unit, f.Source})
		}
		p.section("Factors")
		p.table([]string{"CATEGORY", "VALUE", "UNIT", "SOURCE"}, rows)
	}

	if len(r.Alternatives) > 0 {
		rows := make([][]string, 0, len(r.Alternatives))
		for _, c := range r.Alternatives {
			rows = append(rows, []string{c.Substance, pct(c.Confidence), string(c.Source)})
		}
		p.section("Alternatives")
		p.table([]string{"SUBSTANCE", "CONFIDENCE", "SOURCE"}, rows)
	}

	for _, rec := range r.Recommendations {
		p.bullet(rec)
	}
}
