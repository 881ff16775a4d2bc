package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/texdag/texdag/internal/cli/output"
	"github.com/texdag/texdag/internal/engine"
)

// NewOrderCommand creates the order command.
func NewOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order [sources...]",
		Short: "Suggest a renumbering consistent with all dependencies",
		Long: `Build the dependency graph over all numbered statements and print one
topological ordering: every statement appears after everything it
references. The ordering is advisory; it is one consistent renumbering,
not the only one.

When the graph contains a cycle no ordering exists, the cycle is
reported, and the exit status is non-zero.`,
		Example: `  # Suggest an ordering
  texdag order --aux build/main.aux chapters/*.tex

  # As JSON
  texdag order -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, args)
		},
	}

	return cmd
}

func runOrder(cmd *cobra.Command, args []string) error {
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

	if res.Cycle != nil {
		if cc.Renderer.EffectiveMode() == output.ModeJSON {
			_ = cc.Renderer.JSON(map[string]any{"cycle": res.Cycle})
		}
		return fmt.Errorf("the graph contains a cycle, no ordering is possible: %s",
			strings.Join(res.Cycle, " -> "))
	}

	switch cc.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return cc.Renderer.JSON(map[string]any{"order": res.Order})
	case output.ModeMarkdown:
		return orderMarkdown(cc.Renderer, res)
	default:
		return orderText(cc.Renderer, res)
	}
}

// orderRows lists each label with its current number, in suggested order.
func orderRows(res *engine.Result) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Label", "Current No."})
	for i, label := range res.Order {
		num := ""
		if n, ok := res.Table.Get(label); ok {
			num = n.String()
		}
		t.AppendRow(table.Row{i + 1, label, num})
	}
	return t
}

func orderText(r *output.Renderer, res *engine.Result) error {
	styles := r.Styles()

	r.Header(1, "Suggested Ordering")
	r.Println(styles.Muted.Render("one renumbering consistent with all recorded dependencies"))
	r.Println("")

	t := orderRows(res)
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
	return nil
}

func orderMarkdown(r *output.Renderer, res *engine.Result) error {
	r.Println(output.FormatHeader(1, "Suggested Ordering"))
	r.Println("")
	r.Println(orderRows(res).RenderMarkdown())
	return nil
}
