package cmd

import (
	"github.com/spf13/cobra"

	"github.com/JakeFAU/aocbud/internal/puzzle"
)

// puzzleFlags holds --day/--year. Zero means "today".
type puzzleFlags struct {
	day  int
	year int
}

func (f *puzzleFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.day, "day", "d", 0, "puzzle day (default today, UTC-5)")
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "puzzle year (default this year, UTC-5)")
}

// ref returns nil when neither flag is set so the session resolves today;
// a single flag is completed from today.
func (f *puzzleFlags) ref(client Client) *puzzle.Ref {
	if f.day == 0 && f.year == 0 {
		return nil
	}
	r := client.Today()
	if f.day != 0 {
		r.Day = f.day
	}
	if f.year != 0 {
		r.Year = f.year
	}
	return &r
}
