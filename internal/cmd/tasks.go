package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/board"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the tasks of the current project",
	Long: `List the tasks stored by the scheduler service, with dependency
warnings such as unknown dependencies and cycles.

The YAML and JSON output can be edited and sent back with 'planboard save'.

Examples:
  planboard tasks
  planboard tasks --format yaml > project.yaml`,
	RunE: runTasks,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}

// TasksReport is the output of `planboard tasks`
type TasksReport struct {
	Tasks     []board.Task  `json:"tasks" yaml:"tasks"`
	Resources []string      `json:"resources" yaml:"resources"`
	Issues    []board.Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// WriteText renders the report as a table
func (r TasksReport) WriteText(w io.Writer) error {
	if len(r.Tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks. Open the board with 'planboard' to add some.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tREWARD\tDAYS\tDECAY\tDEPENDS ON\tRESOURCES")
	for _, t := range r.Tasks {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%d\t%g\t%s\t%s\n",
			t.ID, t.Title, t.BaseReward, t.RequiredTime, t.RewardDecayFactor,
			dash(board.JoinIDs(t.Dependencies)), dash(strings.Join(t.RequiredResources, ", ")))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Resources) > 0 {
		fmt.Fprintf(w, "\nResources: %s\n", strings.Join(r.Resources, ", "))
	}
	if len(r.Issues) > 0 {
		fmt.Fprintf(w, "\n%d warning(s):\n", len(r.Issues))
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  • %s\n", issue)
		}
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runTasks(cmd *cobra.Command, args []string) error {
	a := current
	out, err := formatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	data, err := a.client.GetProject(cmd.Context())
	if err != nil {
		return ServiceError("load project data", err)
	}

	store := board.NewStore()
	store.Load(*data)
	payload := store.Commit()

	return out.Format(TasksReport{
		Tasks:     payload.Tasks,
		Resources: payload.Resources,
		Issues:    store.Validate(),
	})
}
