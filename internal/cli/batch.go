package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/cli/pagination"
	"github.com/carbonflow/carbonflow/internal/ingest"
	"github.com/carbonflow/carbonflow/internal/service"
)

// batchOutput is the serialized form of a paged batch report.
type batchOutput struct {
	Items      []service.BatchItem       `json:"items" yaml:"items"`
	Succeeded  int                       `json:"succeeded" yaml:"succeeded"`
	Failed     int                       `json:"failed" yaml:"failed"`
	Pagination pagination.PaginationMeta `json:"pagination" yaml:"pagination"`
}

func newBatchCmd() *cobra.Command {
	var (
		flags    calcFlags
		page     pagination.PaginationParams
		sortExpr string
	)

	cmd := &cobra.Command{
		Use:   "batch <product-file>...",
		Short: "Assess many product systems with one configuration",
		Long: `Assesses every product independently. Files with a top-level "products" list
contribute all their products; other files hold one product system each.
A failed product is reported and does not stop the batch.`,
		Example: `  carbonflow batch catalog.yaml
  carbonflow batch a.yaml b.yaml c.json --sort gwp:desc --limit 10
  carbonflow batch catalog.yaml --page 2 --page-size 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := page.Validate(); err != nil {
				return err
			}
			field, order, err := pagination.ParseSort(sortExpr)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a := newApp(ctx)
			defer a.close(ctx)

			calc, err := flags.resolve(cmd, a.cfg, "")
			if err != nil {
				return err
			}
			products, err := ingest.LoadProducts(ctx, args...)
			if err != nil {
				return err
			}

			report, err := a.svc.BatchCalculation(ctx, products, calc)
			if err != nil {
				return err
			}
			items, err := pagination.SortBatchItems(report.Items, field, order)
			if err != nil {
				return err
			}

			out := batchOutput{
				Items:      pagination.Apply(page, items),
				Succeeded:  report.Succeeded,
				Failed:     report.Failed,
				Pagination: pagination.NewPaginationMeta(page, len(items)),
			}
			return emit(cmd, out, func(p *printer) error {
				renderBatch(p, out)
				return p.err
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&page.Limit, "limit", 0, "maximum number of products to show")
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "number of products to skip")
	cmd.Flags().IntVar(&page.Page, "page", 0, "page number (1-based, requires --page-size)")
	cmd.Flags().IntVar(&page.PageSize, "page-size", 0, "products per page")
	cmd.Flags().StringVar(&sortExpr, "sort", "", "sort by field[:asc|desc]; fields: index, name, gwp, status")
	return cmd
}

func renderBatch(p *printer, out batchOutput) {
	p.title("BATCH ASSESSMENT")
	p.field("Succeeded", fmt.Sprint(out.Succeeded))
	p.field("Failed", fmt.Sprint(out.Failed))

	rows := make([][]string, 0, len(out.Items))
	for _, it := range out.Items {
		gwp, perFU, status := "-", "-", "ok"
		if it.OK() && it.Result != nil {
			gwp = p.num(it.Result.GWP())
			perFU = p.num(it.Result.SystemInfo.PerFunctionalUnit)
		} else {
			status = it.Error
		}
		rows = append(rows, []string{fmt.Sprint(it.Index + 1), it.Name, gwp, perFU, status})
	}
	p.section("Products")
	p.table([]string{"#", "PRODUCT", "GWP (kg CO2-eq)", "PER FU", "STATUS"}, rows)

	m := out.Pagination
	if m.TotalPages > 1 {
		p.printf("\nPage %d of %d (%d products)\n", m.CurrentPage, m.TotalPages, m.TotalItems)
	}
}
