package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/carbonflow/carbonflow/internal/config"
	"github.com/carbonflow/carbonflow/internal/greenops"
)

// tabwriterPadding is the minimum padding between plain table columns.
const tabwriterPadding = 2

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isWriterTerminal reports whether w is a terminal. Buffers never are.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// outputFormat returns the --output flag or the configured default.
func outputFormat(cmd *cobra.Command, cfg *config.Config) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q: use table, json or yaml", format)
	}
}

// emit writes v as JSON or YAML, or calls renderTable for table output.
func emit(cmd *cobra.Command, v any, renderTable func(p *printer) error) error {
	cfg := config.GetGlobalConfig()
	format, err := outputFormat(cmd, cfg)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		return writeYAML(w, v)
	default:
		return renderTable(newPrinter(w, cfg.Output.Precision))
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// printer renders report sections, styled with Lip Gloss on a terminal
// and as plain text otherwise.
type printer struct {
	w         io.Writer
	styled    bool
	precision int
	err       error
}

func newPrinter(w io.Writer, precision int) *printer {
	return &printer{w: w, styled: isWriterTerminal(w), precision: precision}
}

func titleColor() lipgloss.Color   { return lipgloss.Color("39") }
func sectionColor() lipgloss.Color { return lipgloss.Color("33") }
func borderColor() lipgloss.Color  { return lipgloss.Color("240") }
func warnColor() lipgloss.Color    { return lipgloss.Color("214") }

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// title prints the report heading.
func (p *printer) title(s string) {
	if p.styled {
		p.printf("%s\n", lipgloss.NewStyle().Bold(true).Foreground(titleColor()).Render(s))
		return
	}
	p.printf("%s\n%s\n", s, strings.Repeat("=", len(s)))
}

// section prints a section heading preceded by a blank line.
func (p *printer) section(s string) {
	if p.styled {
		p.printf("\n%s\n", lipgloss.NewStyle().Bold(true).Foreground(sectionColor()).Render(s))
		return
	}
	p.printf("\n%s\n", strings.ToUpper(s))
}

// field prints an aligned "label: value" line.
func (p *printer) field(label, value string) {
	if p.styled {
		label = lipgloss.NewStyle().Bold(true).Render(label)
	}
	p.printf("  %s: %s\n", label, value)
}

// bullet prints an indented list item.
func (p *printer) bullet(s string) {
	p.printf("  - %s\n", s)
}

// warning prints a highlighted warning line.
func (p *printer) warning(s string) {
	if p.styled {
		s = lipgloss.NewStyle().Foreground(warnColor()).Render(s)
	}
	p.printf("  ! %s\n", s)
}

// table prints rows under headers.
func (p *printer) table(headers []string, rows [][]string) {
	if p.err != nil || len(rows) == 0 {
		return
	}
	if p.styled {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(borderColor())).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return lipgloss.NewStyle().Bold(true).Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers(headers...).
			Rows(rows...)
		p.printf("%s\n", t.Render())
		return
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, tabwriterPadding, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	seps := make([]string, len(headers))
	for i, h := range headers {
		seps[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(seps, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	p.err = tw.Flush()
}

// smallValue is the magnitude below which values switch to significant digits.
const smallValue = 0.01

// num formats a value with the configured precision and thousands
// separators. Small non-zero values keep three significant digits.
func (p *printer) num(v float64) string {
	if v != 0 && math.Abs(v) < smallValue {
		return strconv.FormatFloat(v, 'g', 3, 64)
	}
	return greenops.FormatFloat(v, p.precision)
}

// qty formats a value with its unit.
func (p *printer) qty(v float64, unit string) string {
	if unit == "" {
		return p.num(v)
	}
	return p.num(v) + " " + unit
}

// pct formats a 0..1 share as a percentage.
func pct(share float64) string {
	return greenops.FormatPercent(share * 100)
}
