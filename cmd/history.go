package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	flags := &puzzleFlags{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List submitted answers",
		Long:  `Lists answers submitted for a puzzle, oldest first, with how each was classified.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			client := appInstance.GetClient()
			subs, err := client.History(cmd.Context(), flags.ref(client))
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SUBMITTED\tLEVEL\tANSWER\tOUTCOME")
			for _, s := range subs {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.SubmittedAt.Format(time.DateTime), s.Level, s.Answer, s.Outcome)
			}
			return w.Flush()
		},
	}
	flags.register(cmd)
	return cmd
}
