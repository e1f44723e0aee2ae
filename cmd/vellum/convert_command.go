package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vellum/serial"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a document between plain and compressed encodings",
		Long: "Reads a document and writes it to a new location. Compression is chosen\n" +
			"from the output extension: .zst and .lz4 files are compressed, anything\n" +
			"else is written as plain JSON.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.componentLogger("convert")

			input, output := args[0], args[1]
			v, err := serial.ReadFile(input)
			if err != nil {
				return err
			}

			opts := serial.WriteOptions{
				Compact: compact || !cfg.Output.Pretty,
				Lock:    cfg.Output.LockWrites,
			}
			if err := serial.WriteFile(v, output, opts); err != nil {
				return err
			}

			logger.Info("converted document", "input", input, "output", output)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Write single-line output")
	return cmd
}
