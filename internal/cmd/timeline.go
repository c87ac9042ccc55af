package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/timeline"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the stored timeline",
	Long: `Fetch the timeline stored by the last schedule request and render it as
a Gantt chart. Bars are positioned relative to the earliest start and latest
end of the schedule.

Examples:
  planboard timeline
  planboard timeline --hover T3
  planboard timeline --format json`,
	RunE: runTimeline,
}

var (
	timelineHover string
	timelineWidth int
)

func init() {
	timelineCmd.Flags().StringVar(&timelineHover, "hover", "", "show the tooltip of this task")
	timelineCmd.Flags().IntVar(&timelineWidth, "width", 0, "chart width in columns (default from board.chart_width)")

	rootCmd.AddCommand(timelineCmd)
}

// TimelineReport is the output of `planboard timeline`
type TimelineReport struct {
	Empty      bool                 `json:"empty" yaml:"empty"`
	Projection *timeline.Projection `json:"projection,omitempty" yaml:"projection,omitempty"`

	chart string
}

// WriteText renders the chart
func (r TimelineReport) WriteText(w io.Writer) error {
	if r.Empty {
		_, err := io.WriteString(w, "No scheduled tasks to display. Run 'planboard schedule' first.\n")
		return err
	}
	_, err := io.WriteString(w, r.chart+"\n")
	return err
}

func runTimeline(cmd *cobra.Command, args []string) error {
	a := current
	out, err := formatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	snap, err := a.client.FetchTimeline(cmd.Context())
	if err != nil {
		return ServiceError("load the timeline", err)
	}
	if snap == nil || snap.Empty() {
		return out.Format(TimelineReport{Empty: true})
	}

	proj, err := timeline.Project(snap.Tasks)
	if err != nil {
		return err
	}

	width := timelineWidth
	if width <= 0 {
		width = a.cfg.Board.ChartWidth
	}
	return out.Format(TimelineReport{
		Projection: &proj,
		chart:      timeline.NewRenderer(width, a.cfg.Board.TooltipWidthPct).Render(proj, timelineHover),
	})
}
