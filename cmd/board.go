package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskflow.com/taskflow/internal/board"
)

var boardHandoffFirst bool

var boardCmd = &cobra.Command{
	Use:   "board <team-id>",
	Short: "Print a team's board",
	Long:  "Loads the board of a team the way the live store sees it and prints every column with its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
			defer cancel()
			a.close(ctx)
		}()

		var opts []board.Option
		if boardHandoffFirst {
			opts = append(opts, board.WithHandoffFirst())
		}
		st := board.New(a.gateway, args[0], logger, opts...)
		if err := st.Load(cmd.Context()); err != nil {
			return err
		}
		return printBoard(cmd.OutOrStdout(), st.Snapshot())
	},
}

func printBoard(out io.Writer, snap board.Snapshot) error {
	title := "(unknown team)"
	if snap.Team != nil {
		title = snap.Team.Name
	}
	if snap.Sample {
		title += " [sample]"
	}
	fmt.Fprintln(out, title)
	if snap.Streak != nil {
		fmt.Fprintf(out, "streak: %d day(s), longest %d, %d completed\n",
			snap.Streak.CurrentStreak, snap.Streak.LongestStreak, snap.Streak.TotalCompleted)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, col := range snap.Columns {
		fmt.Fprintf(w, "\n%s (%d)\t\t\n", col.Name, len(col.Tasks))
		for _, t := range col.Tasks {
			marker := " "
			if t.IsHandedOff() {
				marker = ">"
			}
			fmt.Fprintf(w, "%s %s\t%s\t%s\n", marker, t.Title, t.Priority, strings.Join(t.Tags, ","))
		}
	}
	return w.Flush()
}

func init() {
	boardCmd.Flags().BoolVar(&boardHandoffFirst, "handoff-first", false, "list handed off tasks first in every column")
	rootCmd.AddCommand(boardCmd)
}
