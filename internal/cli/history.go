package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/framewave/directive/internal/db"
	"github.com/framewave/directive/internal/models"
)

var (
	historyActor  string
	historyLimit  int
	historySince  string
	historyCursor string
	historyEvents bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyActor, "actor", "", "filter by actor id")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
	historyCmd.Flags().StringVar(&historySince, "since", "", "only runs since this time (RFC3339 or duration like 2h)")
	historyCmd.Flags().StringVar(&historyCursor, "cursor", "", "run id from a previous page; show runs older than it")
	historyCmd.Flags().BoolVar(&historyEvents, "events", false, "show the event log for an actor instead of runs (requires --actor)")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded executor runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		if historyEvents {
			return showActorEvents(cmd, database)
		}

		query := db.ExecutionQuery{Limit: historyLimit, Cursor: historyCursor}
		if historyActor != "" {
			query.ActorID = &historyActor
		}
		if historySince != "" {
			since, err := parseSince(historySince)
			if err != nil {
				return err
			}
			query.Since = &since
		}

		records, err := db.NewExecutionRepository(database).Query(cmd.Context(), query)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
			return nil
		}

		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []string{
				rec.RunID[:8],
				rec.ActorID,
				fmt.Sprintf("%d/%d/%d", rec.TotalActions, rec.Succeeded, rec.Failed),
				formatYesNo(rec.Cancelled),
				fmt.Sprintf("%dms", rec.DurationMs),
				rec.StartedAt.Local().Format(time.RFC3339),
			})
		}
		return renderRows(cmd.OutOrStdout(), []string{"RUN", "ACTOR", "TOTAL/OK/FAIL", "CANCELLED", "DURATION", "STARTED"}, rows)
	},
}

// showActorEvents lists the event log for one actor, oldest first.
func showActorEvents(cmd *cobra.Command, database *db.DB) error {
	if historyActor == "" {
		return fmt.Errorf("--events requires --actor")
	}

	events, err := db.NewEventRepository(database).ListByEntity(cmd.Context(), models.EntityTypeActor, historyActor, historyLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded events")
		return nil
	}

	rows := make([][]string, 0, len(events))
	for _, event := range events {
		rows = append(rows, []string{
			event.Timestamp.Local().Format(time.RFC3339),
			string(event.Type),
			truncate(string(event.Payload), 72),
		})
	}
	return renderRows(cmd.OutOrStdout(), []string{"TIME", "TYPE", "PAYLOAD"}, rows)
}

// parseSince accepts either an RFC3339 timestamp or a relative duration.
func parseSince(value string) (time.Time, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return time.Now().Add(-d).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since value %q", value)
	}
	return t.UTC(), nil
}
