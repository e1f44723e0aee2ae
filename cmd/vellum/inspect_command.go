package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Summarize document files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}

			rows := make([][]string, 0, len(args))
			for _, path := range args {
				info, err := inspectDocument(path)
				if err != nil {
					return err
				}
				rows = append(rows, append(
					documentCells(info.Path, info.TypeName, info.ElementCount, info.SizeBytes),
					yesNo(info.Compressed),
					info.ModifiedAt.Format(time.RFC3339),
				))
			}

			out := renderDocumentTable(
				[]tableColumn{{title: "Compressed"}, {title: "Modified"}},
				rows,
			)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	return cmd
}
