package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive planning board",
	Long: `Open the interactive planning board.

The board loads the project from the scheduler service and shows three panes:
  Tasks            - task cards with quick-add, edit and soft delete
  Dependency graph - the graph generated on the last save
  Timeline         - the last computed schedule as a Gantt chart

Deletions only take effect when the project is saved. Press ? for the full
list of keys.

Example:
  planboard board
  PLANBOARD_API_URL=http://scheduler:8080/api/v1 planboard`,
	Annotations: map[string]string{annotationInteractive: "true"},
}

func init() {
	boardCmd.RunE = runBoard
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	a := current
	store := board.NewStore()

	model := tui.NewModel(cmd.Context(), store, tui.Options{
		Remote:          a.client,
		Saver:           a.sync(),
		Scheduler:       a.requestor(),
		Tokens:          a.tokens,
		Logger:          a.logger,
		NotificationTTL: a.cfg.Board.NotificationTTL,
		ChartWidth:      a.cfg.Board.ChartWidth,
		TooltipWidthPct: a.cfg.Board.TooltipWidthPct,
	})

	final, err := tui.Run(cmd.Context(), model)
	if err != nil {
		return err
	}

	if final.Store().Dirty() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Unsaved changes were discarded.")
	}
	return nil
}
