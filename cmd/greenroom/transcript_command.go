package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTranscriptCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <folder>",
		Short: "Print a session's full transcript document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.store()
			if err != nil {
				return err
			}
			// Loading first distinguishes an unknown session from a session
			// that simply has no transcribed answers yet.
			if _, err := store.Load(args[0]); err != nil {
				return err
			}

			manager, err := ctx.transcripts()
			if err != nil {
				return err
			}
			text, err := manager.Read(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if text == "" {
				fmt.Fprintln(out, "No transcript recorded yet.")
				return nil
			}
			fmt.Fprint(out, text)
			return nil
		},
	}
}
