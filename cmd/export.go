package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/abhisek/lexiscreen/internal/export"
	"github.com/abhisek/lexiscreen/internal/metrics"
	"github.com/abhisek/lexiscreen/internal/store"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export a stored session report (latest when no id is given)",
	Args:  cobra.MaximumNArgs(1),
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

		ctx := context.Background()
		var data *metrics.SessionData
		if len(args) == 1 {
			data, err = st.LoadSession(ctx, args[0])
		} else {
			data, err = st.LatestSession(ctx)
		}
		if err != nil {
			return err
		}
		if data == nil {
			return fmt.Errorf("no stored session found")
		}

		var w io.Writer = os.Stdout
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			return export.WriteJSON(w, *data)
		case "csv":
			return export.WriteCSV(w, *data)
		default:
			return fmt.Errorf("unknown format %q (want json or csv)", format)
		}
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "Report format: json or csv")
	exportCmd.Flags().String("out", "", "Write to a file instead of stdout")
}
