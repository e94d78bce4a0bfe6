package cmd

import (
	"fmt"
	"strconv"
	"time"

	"f1dashboard/pkg/render"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var standingsCmd = &cobra.Command{
	Use:     "standings [year]",
	Short:   "Print the driver and constructor standings of a season",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: commandSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		year := time.Now().Year()
		if len(args) == 1 {
			y, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Errorf("invalid year %q", args[0])
			}
			year = y
		}

		b, err := newBackend(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()

		season, err := b.service.Standings(cmd.Context(), year)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		compact, _ := cmd.Flags().GetBool("compact")
		fmt.Fprintf(out, "Drivers %d\n%s\n", year, render.Drivers(season.Drivers, compact))
		fmt.Fprintf(out, "Constructors %d\n%s\n", year, render.Constructors(season.Constructors))
		if omitted := render.Omitted(season.Omitted); omitted != "" {
			fmt.Fprint(out, omitted)
		}
		return nil
	},
}

func init() {
	standingsCmd.Flags().Bool("compact", false, "print driver codes instead of full names and teams")
	rootCmd.AddCommand(standingsCmd)
}
