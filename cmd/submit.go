package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/aocbud/internal/puzzle"
)

func newSubmitCmd() *cobra.Command {
	flags := &puzzleFlags{}
	cmd := &cobra.Command{
		Use:   "submit LEVEL ANSWER",
		Short: "Submit an answer for part 1 or 2",
		Long: `Submits ANSWER for LEVEL (1 or 2) and prints how the site responded.
Submissions are never retried; a rate-limit reply prints the remaining wait.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(args[0])
			if err != nil {
				return err
			}
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			client := appInstance.GetClient()
			out, err := client.Submit(cmd.Context(), flags.ref(client), level, args[1])
			if err != nil {
				return fmt.Errorf("submit: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func parseLevel(s string) (puzzle.Level, error) {
	n, err := strconv.Atoi(s)
	if err != nil || (puzzle.Level(n) != puzzle.LevelOne && puzzle.Level(n) != puzzle.LevelTwo) {
		return 0, fmt.Errorf("level must be 1 or 2, got %q", s)
	}
	return puzzle.Level(n), nil
}
