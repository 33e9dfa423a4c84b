package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded interview sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.store()
			if err != nil {
				return err
			}
			summaries, err := api.NewSessionService(store).List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No sessions recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(summaries))
			for _, summary := range summaries {
				rows = append(rows, []string{
					summary.Folder,
					summary.UserName,
					summary.SessionStart,
					yesNo(summary.Finished),
					strconv.Itoa(summary.Uploads),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"FOLDER", "USER", "STARTED", "FINISHED", "UPLOADS"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
