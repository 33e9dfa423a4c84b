package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greenroom/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of the external media tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colors := shouldColorize(out)
			allAvailable := true

			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				state := colorize("OK", ansiGreen, colors)
				detail := status.Description
				if !status.Available {
					allAvailable = false
					state = colorize("MISSING", ansiRed, colors)
					detail = status.Detail
				}
				fmt.Fprintf(out, "  %-10s %-8s %s\n", status.Name, state, detail)
			}

			if !allAvailable {
				fmt.Fprintln(out, colorize("\nUploads still persist without these tools; transcripts degrade to error markers.", ansiYellow, colors))
			}
			return nil
		},
	}
}
