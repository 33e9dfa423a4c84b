package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const transcriptColumnWidth = 48

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <folder>",
		Short: "Show one session's record and uploaded answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.store()
			if err != nil {
				return err
			}
			sess, err := store.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Folder:    %s\n", sess.Folder)
			fmt.Fprintf(out, "User:      %s\n", sess.UserName)
			fmt.Fprintf(out, "Timezone:  %s\n", sess.TimeZone)
			fmt.Fprintf(out, "Started:   %s\n", sess.SessionStart)
			if sess.SessionEnd != nil {
				fmt.Fprintf(out, "Ended:     %s\n", *sess.SessionEnd)
			}
			fmt.Fprintf(out, "Finished:  %s\n", yesNo(sess.Finished))
			if sess.QuestionsCount > 0 {
				fmt.Fprintf(out, "Questions: %d\n", sess.QuestionsCount)
			}

			if len(sess.Uploaded) == 0 {
				fmt.Fprintln(out, "\nNo answers uploaded.")
				return nil
			}

			rows := make([][]string, 0, len(sess.Uploaded))
			for _, rec := range sess.Uploaded {
				size := fmt.Sprintf("%.2f MB", rec.SizeMB)
				if info, err := os.Stat(store.MediaPath(sess.Folder, rec.File)); err == nil {
					size = humanize.IBytes(uint64(info.Size()))
				}
				rows = append(rows, []string{
					strconv.Itoa(rec.Q),
					rec.File,
					size,
					rec.Mime,
					rec.UploadedAt,
					truncate(rec.Transcript, transcriptColumnWidth),
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"Q", "FILE", "SIZE", "MIME", "UPLOADED AT", "TRANSCRIPT"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
