package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/texdag/texdag/internal/check"
	"github.com/texdag/texdag/internal/cli/output"
	"github.com/texdag/texdag/internal/engine"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [sources...]",
		Short: "Check reference order against the numbering",
		Long: `Scan the source files for references between numbered statements and
flag every ordinary reference that points at a statement numbered after
the referencing one. Forward-marked references are exempt.

The exit status is non-zero when violations are found.`,
		Example: `  # Check a document
  texdag check --aux build/main.aux chapters/*.tex

  # With sources and macros from texdag.yaml
  texdag check

  # Machine-readable output
  texdag check -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	eng, err := cc.NewEngine(args)
	if err != nil {
		return err
	}
	res, err := eng.Run(cmd.Context())
	if err != nil {
		return err
	}

	printDiagnostics(cc.Renderer, res.Diagnostics)

	switch cc.Renderer.EffectiveMode() {
	case output.ModeJSON:
		err = checkJSON(cc.Renderer, res)
	case output.ModeMarkdown:
		err = checkMarkdown(cc.Renderer, res)
	default:
		err = checkText(cc.Renderer, res)
	}
	if err != nil {
		return err
	}

	if n := len(res.Violations); n > 0 {
		return fmt.Errorf("%d ordering violation(s) found", n)
	}
	return nil
}

// violationRows renders the violation list into a go-pretty table.
func violationRows(res *engine.Result) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Source", "No.", "References", "No."})
	for _, v := range res.Violations {
		t.AppendRow(table.Row{v.Source, v.SourceNum.String(), v.Target, v.TargetNum.String()})
	}
	return t
}

func checkText(r *output.Renderer, res *engine.Result) error {
	styles := r.Styles()

	r.Header(1, "Reference Order Check")
	r.Println("")

	if len(res.Violations) == 0 {
		r.Println(styles.Success.Render("No violations: the numbering respects the dependency order."))
		r.Println(styles.Muted.Render(fmt.Sprintf("%d labels, %d references checked", res.Table.Len(), len(res.Edges))))
		return nil
	}

	r.Println(styles.Error.Render(fmt.Sprintf("%d ordering violation(s):", len(res.Violations))))
	t := violationRows(res)
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
	return nil
}

func checkMarkdown(r *output.Renderer, res *engine.Result) error {
	r.Println(output.FormatHeader(1, "Reference Order Check"))
	r.Println("")

	if len(res.Violations) == 0 {
		r.Printf("No violations. %d labels, %d references checked.\n", res.Table.Len(), len(res.Edges))
		return nil
	}

	r.Printf("%d ordering violation(s):\n\n", len(res.Violations))
	t := violationRows(res)
	r.Println(t.RenderMarkdown())
	return nil
}

// checkReport is the JSON shape of a check run.
type checkReport struct {
	Labels      int                `json:"labels"`
	References  int                `json:"references"`
	Forward     int                `json:"forward_references"`
	Violations  []violationReport  `json:"violations"`
	Diagnostics []diagnosticReport `json:"diagnostics,omitempty"`
}

type violationReport struct {
	Source    string `json:"source"`
	SourceNum string `json:"source_number"`
	Target    string `json:"target"`
	TargetNum string `json:"target_number"`
}

type diagnosticReport struct {
	Severity string `json:"severity"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

func checkJSON(r *output.Renderer, res *engine.Result) error {
	report := checkReport{
		Labels:     res.Table.Len(),
		References: len(res.Edges),
		Forward:    len(res.Forward),
		Violations: make([]violationReport, 0, len(res.Violations)),
	}
	for _, v := range res.Violations {
		report.Violations = append(report.Violations, newViolationReport(v))
	}
	for _, d := range res.Diagnostics {
		report.Diagnostics = append(report.Diagnostics, diagnosticReport{
			Severity: string(d.Severity),
			Path:     d.Path,
			Message:  d.Message,
		})
	}
	return r.JSON(report)
}

func newViolationReport(v check.Violation) violationReport {
	return violationReport{
		Source:    v.Source,
		SourceNum: v.SourceNum.String(),
		Target:    v.Target,
		TargetNum: v.TargetNum.String(),
	}
}
