package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"vellum/internal/fileutil"
	"vellum/serial"
)

func newFmtCommand(ctx *commandContext) *cobra.Command {
	var compact bool
	var check bool

	cmd := &cobra.Command{
		Use:   "fmt <file>...",
		Short: "Rewrite document files in canonical form",
		Long: "Parses each file and rewrites it with canonical formatting. Key order\n" +
			"and values are preserved; only whitespace changes. With --check no file\n" +
			"is modified and a non-zero exit reports files that would change.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.componentLogger("fmt")

			pretty := cfg.Output.Pretty
			if compact {
				pretty = false
			}

			var changed []string
			for _, path := range args {
				before, err := fileutil.ReadFile(path)
				if err != nil {
					return err
				}
				v, err := serial.Parse(before)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				var after []byte
				if pretty {
					after, err = serial.MarshalPretty(v)
				} else {
					after, err = serial.Marshal(v)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if pretty {
					after = append(after, '\n')
				}

				if bytes.Equal(before, after) {
					continue
				}
				changed = append(changed, path)
				if check {
					continue
				}

				opts := serial.WriteOptions{Compact: !pretty, Lock: cfg.Output.LockWrites}
				if err := serial.WriteFile(v, path, opts); err != nil {
					return err
				}
				logger.Info("rewrote document", "path", path, "bytes", len(after))
			}

			if check && len(changed) > 0 {
				for _, path := range changed {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
				return fmt.Errorf("%d file(s) need formatting", len(changed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Write single-line output")
	cmd.Flags().BoolVar(&check, "check", false, "List files that would change without rewriting them")
	return cmd
}
