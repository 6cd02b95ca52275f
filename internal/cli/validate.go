package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carbonflow/carbonflow/internal/ingest"
	"github.com/carbonflow/carbonflow/internal/service"
)

// ErrInvalidInput is returned when validation finds errors.
var ErrInvalidInput = constError("product system failed validation")

type constError string

func (e constError) Error() string { return string(e) }

func newValidateCmd() *cobra.Command {
	var flags calcFlags

	cmd := &cobra.Command{
		Use:   "validate <product-file>",
		Short: "Check a product system and configuration without calculating",
		Long: `Runs the structural checks, the configuration checks and flow matching.
Unmatched flows are reported as warnings. The command exits non-zero when
any error is found.`,
		Example: `  carbonflow validate bottle.yaml --preset research`,
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

			v := a.svc.ValidateInputData(ctx, *sys, calc)
			if err = emit(cmd, v, func(p *printer) error {
				renderValidation(p, sys.Name, v)
				return p.err
			}); err != nil {
				return err
			}
			if !v.Valid {
				return fmt.Errorf("%w: %d error(s)", ErrInvalidInput, len(v.Errors))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func renderValidation(p *printer, name string, v service.InputValidation) {
	p.title("VALIDATION: " + name)
	status := "valid"
	if !v.Valid {
		status = "invalid"
	}
	p.field("Status", status)

	if len(v.Errors) > 0 {
		p.section("Errors")
		for _, e := range v.Errors {
			p.bullet(e)
		}
	}
	if len(v.Warnings) > 0 {
		p.section("Warnings")
		for _, w := range v.Warnings {
			p.warning(w)
		}
	}
}
