package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/aocbud/internal/cache"
	"github.com/JakeFAU/aocbud/internal/classify"
	"github.com/JakeFAU/aocbud/internal/puzzle"
)

type fetchFunc func(Client, context.Context, *puzzle.Ref) (classify.Outcome, error)

func newInputCmd() *cobra.Command {
	return newFetchCmd("input", "Print the puzzle input", `Prints your puzzle input, downloading it once and
reading it from the cache afterwards.`, Client.FetchInput)
}

func newExampleCmd() *cobra.Command {
	return newFetchCmd("example", "Print the first example input", `Prints the first example block from the puzzle
page. The extracted example is cached like the real input.`, Client.FetchExampleInput)
}

func newDescribeCmd() *cobra.Command {
	return newFetchCmd("describe", "Print the puzzle text", `Prints the text of the puzzle page. The text is not
cached because part two appears once part one is solved.`, Client.FetchDescription)
}

func newFetchCmd(use, short, long string, fetch fetchFunc) *cobra.Command {
	flags := &puzzleFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			client := appInstance.GetClient()
			out, err := fetch(client, cmd.Context(), flags.ref(client))
			switch {
			case err != nil && out.IsContent() && errors.Is(err, cache.ErrCacheIO):
				appInstance.GetLogger().Warn("result not cached", zap.Error(err))
			case err != nil:
				return fmt.Errorf("%s: %w", use, err)
			case !out.IsContent():
				return fmt.Errorf("%s: %s", use, out)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out.Text)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
