package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/texdag/texdag/internal/cli/output"
	"github.com/texdag/texdag/internal/dag"
)

// GraphQuerier provides read-only access to the dependency graph.
type GraphQuerier interface {
	Labels() []string
	Dependencies(string) []string
	Dependents(string) []string
	Roots() []string
	Leaves() []string
	NodeCount() int
	EdgeCount() int
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [sources...]",
		Short: "Show the statement dependency graph",
		Long: `Display the dependency graph induced by ordinary references: nodes are
the labels of the numbering table, an edge means the source statement
references the target. Forward references never appear here.`,
		Example: `  # Show the graph
  texdag graph --aux build/main.aux chapters/*.tex

  # Output as JSON for tooling (e.g. diagram generators)
  texdag graph -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args)
		},
	}

	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
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

	graph := eng.BuildGraph(res.Table, res.Edges)

	switch cc.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return graphJSON(cc.Renderer, graph)
	case output.ModeMarkdown:
		return graphMarkdown(cc.Renderer, graph)
	default:
		return graphText(cc.Renderer, graph)
	}
}

func graphText(r *output.Renderer, graph GraphQuerier) error {
	styles := r.Styles()

	r.Header(1, "Dependency Graph")
	r.Println("")

	for _, label := range graph.Labels() {
		deps := graph.Dependencies(label)
		users := graph.Dependents(label)
		if len(deps) == 0 && len(users) == 0 {
			continue
		}
		r.Printf("%s\n", styles.Label.Render(label))
		if len(deps) > 0 {
			r.Printf("  %s %s\n", styles.Muted.Render("references:"), strings.Join(deps, ", "))
		}
		if len(users) > 0 {
			r.Printf("  %s %s\n", styles.Muted.Render("referenced by:"), strings.Join(users, ", "))
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render(summaryLine(graph)))
	return nil
}

func graphMarkdown(r *output.Renderer, graph GraphQuerier) error {
	r.Println(output.FormatHeader(1, "Dependency Graph"))
	r.Println("")

	for _, label := range graph.Labels() {
		deps := graph.Dependencies(label)
		if len(deps) == 0 {
			continue
		}
		r.Printf("- `%s` references %s\n", label, "`"+strings.Join(deps, "`, `")+"`")
	}

	r.Println("")
	r.Println(summaryLine(graph))
	return nil
}

// graphNode is the JSON shape of one node, consumed by downstream
// diagram tooling.
type graphNode struct {
	Label        string   `json:"label"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func graphJSON(r *output.Renderer, graph GraphQuerier) error {
	nodes := make([]graphNode, 0, graph.NodeCount())
	for _, label := range graph.Labels() {
		nodes = append(nodes, graphNode{Label: label, Dependencies: graph.Dependencies(label)})
	}
	return r.JSON(map[string]any{
		"nodes":  nodes,
		"roots":  graph.Roots(),
		"leaves": graph.Leaves(),
	})
}

func summaryLine(graph GraphQuerier) string {
	return strings.Join([]string{
		plural(graph.NodeCount(), "label"),
		plural(graph.EdgeCount(), "dependency", "dependencies"),
		plural(len(graph.Roots()), "root"),
	}, ", ")
}

func plural(n int, singular string, forms ...string) string {
	if n == 1 {
		return "1 " + singular
	}
	p := singular + "s"
	if len(forms) > 0 {
		p = forms[0]
	}
	return strconv.Itoa(n) + " " + p
}

var _ GraphQuerier = (*dag.Graph)(nil)
