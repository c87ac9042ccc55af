package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/config"
	"github.com/felixgeelhaar/planboard/internal/errors"
	"github.com/felixgeelhaar/planboard/internal/progress"
	"github.com/felixgeelhaar/planboard/internal/schedule"
	"github.com/felixgeelhaar/planboard/internal/timeline"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Compute a schedule for the saved project",
	Long: `Ask the scheduler service to compute an optimized schedule for the saved
project and store the result as the timeline.

The scheduler only sees persisted tasks; save pending changes first.

Examples:
  planboard schedule
  planboard schedule --show
  planboard schedule --show --base-date 2024-03-01
  planboard schedule --format json`,
	RunE: runSchedule,
}

var (
	scheduleShow     bool
	scheduleBaseDate string
)

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleShow, "show", false, "render the new schedule as a timeline")
	scheduleCmd.Flags().StringVar(&scheduleBaseDate, "base-date", "", "day the schedule starts on, YYYY-MM-DD (default from board.base_date)")

	rootCmd.AddCommand(scheduleCmd)
}

// ScheduleReport is the output of `planboard schedule`
type ScheduleReport struct {
	api.ScheduleResponse `yaml:",inline"`
	DurationMS           int64 `json:"durationMs" yaml:"durationMs"`

	chart string
}

// WriteText renders the schedule ordered by suggested priority
func (r ScheduleReport) WriteText(w io.Writer) error {
	result := r.Result
	if result == nil {
		_, err := fmt.Fprintln(w, "The scheduler returned no result.")
		return err
	}

	fmt.Fprintf(w, "Schedule: %d tasks, total reward %.1f over %.1f days (%dms)\n\n",
		len(result.ScheduledTasks), result.TotalReward, result.TotalTime, r.DurationMS)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTART\tEND\tREWARD\tPRIORITY\tCOMPLEXITY\tRESOURCES")
	for _, st := range schedule.ByPriority(result) {
		complexity := "-"
		if st.LLMAnalysis != nil && st.LLMAnalysis.EstimatedComplexity != "" {
			complexity = st.LLMAnalysis.EstimatedComplexity
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%.1f\t%s\t%s\t%s\n",
			st.ID, st.Title, st.StartTime, st.EndTime, st.ActualReward,
			schedule.PriorityOf(st), complexity, dash(strings.Join(st.Resources, ", ")))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, st := range result.ScheduledTasks {
		if st.LLMAnalysis == nil || len(st.LLMAnalysis.PotentialRisks) == 0 {
			continue
		}
		fmt.Fprintf(w, "\nRisks for %s:\n", st.ID)
		for _, risk := range st.LLMAnalysis.PotentialRisks {
			fmt.Fprintf(w, "  • %s\n", risk)
		}
	}

	if r.chart != "" {
		fmt.Fprintf(w, "\n%s\n", r.chart)
	}
	return nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a := current
	out, err := formatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	base, err := baseDate(a.cfg, scheduleBaseDate)
	if err != nil {
		return err
	}

	spin := progress.NewIndicator(progress.Config{Writer: cmd.ErrOrStderr()})
	spin.Start("Computing schedule")
	resp, reqErr := a.requestor().Request(cmd.Context())
	elapsed := spin.Elapsed()
	spin.Stop()
	if resp == nil {
		return ServiceError("compute the schedule", reqErr)
	}

	report := ScheduleReport{ScheduleResponse: *resp, DurationMS: elapsed.Milliseconds()}
	if scheduleShow && resp.Result != nil {
		snap := schedule.SnapshotFromResult(resp.Result, base)
		if proj, err := timeline.Project(snap.Tasks); err == nil {
			report.chart = timeline.NewRenderer(a.cfg.Board.ChartWidth, a.cfg.Board.TooltipWidthPct).Render(proj, "")
		}
	}

	if err := out.Format(report); err != nil {
		return err
	}
	return reqErr
}

// baseDate resolves --base-date, falling back to the configured date
func baseDate(cfg *config.Config, flag string) (time.Time, error) {
	if flag == "" {
		return cfg.BaseDate()
	}
	t, err := time.Parse(config.DateLayout, flag)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid --base-date %q", flag), err).
			WithSuggestion("Use the YYYY-MM-DD form, e.g. --base-date 2024-03-01")
	}
	return t, nil
}
