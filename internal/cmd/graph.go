package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/ux"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show or export the dependency graph",
	Long: `Fetch the dependency graph generated on the last save.

The scheduler service returns either a PNG image, which is written to --out,
or a node and edge list, which is printed.

Examples:
  planboard graph
  planboard graph --out deps.png
  planboard graph --regenerate`,
	RunE: runGraph,
}

var (
	graphOut        string
	graphRegenerate bool
)

func init() {
	graphCmd.Flags().StringVarP(&graphOut, "out", "o", ux.NewPathDefaults().GraphFile(), "where to write a PNG graph")
	graphCmd.Flags().BoolVar(&graphRegenerate, "regenerate", false, "regenerate the graph from the saved project first")

	rootCmd.AddCommand(graphCmd)
}

// GraphReport is the output of `planboard graph`
type GraphReport struct {
	Format string          `json:"format" yaml:"format"`
	File   string          `json:"file,omitempty" yaml:"file,omitempty"`
	Bytes  int             `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	Graph  *api.GraphTable `json:"graph,omitempty" yaml:"graph,omitempty"`
}

// WriteText renders the graph as a dependency table
func (r GraphReport) WriteText(w io.Writer) error {
	if r.Graph == nil {
		_, err := fmt.Fprintf(w, "✓ Dependency graph written to %s (%d bytes)\n", r.File, r.Bytes)
		return err
	}
	if len(r.Graph.Nodes) == 0 {
		_, err := fmt.Fprintln(w, "The dependency graph is empty.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDEPENDS ON")
	for _, n := range r.Graph.Nodes {
		deps := r.Graph.DependenciesOf(n.ID)
		dep := "-"
		if len(deps) > 0 {
			dep = strings.Join(deps, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.Label, dep)
	}
	return tw.Flush()
}

func runGraph(cmd *cobra.Command, args []string) error {
	a := current
	ctx := cmd.Context()
	out, err := formatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if graphRegenerate {
		data, err := a.client.GetProject(ctx)
		if err != nil {
			return ServiceError("load project data", err)
		}
		store := board.NewStore()
		store.Load(*data)
		if err := a.client.RegenerateGraph(ctx, store.Commit()); err != nil {
			return ServiceError("regenerate the dependency graph", err)
		}
	}

	g, err := a.client.FetchGraph(ctx)
	if err != nil {
		return ServiceError("load the dependency graph", err)
	}

	switch g := g.(type) {
	case api.GraphImage:
		if err := os.WriteFile(graphOut, g.PNG, 0o644); err != nil {
			return fmt.Errorf("write graph image: %w", err)
		}
		return out.Format(GraphReport{Format: "png", File: graphOut, Bytes: len(g.PNG)})
	case api.GraphTable:
		return out.Format(GraphReport{Format: "table", Graph: &g})
	default:
		return fmt.Errorf("unexpected graph type %T", g)
	}
}
