package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/abhisek/lexiscreen/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored screening sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		sessions, err := st.ListSessions(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No stored sessions.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tPARTICIPANT\tTASKS\tTRIALS\tACCURACY")
		for _, info := range sessions {
			participant := info.Participant
			if participant == "" {
				participant = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.0f%%\n",
				info.ID,
				info.StartedAt.Format("2006-01-02 15:04"),
				participant,
				info.TaskCount,
				info.TrialCount,
				info.Accuracy,
			)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of sessions to list (0 for all)")
}
