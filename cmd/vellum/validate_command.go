package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vellum/serial"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check document files for structural problems",
		Long: "Parses each file and checks the shape of its type tags and element\n" +
			"list. Files that parse but carry no type tag validate with a warning,\n" +
			"since they cannot be decoded reflectively.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			failures := 0
			for _, path := range args {
				kind, message := validateFile(path)
				if kind == statusError {
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(path, kind, message, colorize))
			}

			if failures > 0 {
				return fmt.Errorf("%d of %d file(s) failed validation", failures, len(args))
			}
			return nil
		},
	}
	return cmd
}

func validateFile(path string) (statusKind, string) {
	v, err := serial.ReadFile(path)
	if err != nil {
		return statusError, err.Error()
	}

	doc, ok := v.(*serial.Document)
	if !ok {
		if _, isList := v.([]any); isList {
			return statusWarn, "top-level array, not a document"
		}
		return statusWarn, "top-level scalar, not a document"
	}

	var typeName string
	if raw, tagged := doc.Get(serial.TypeKey); tagged {
		typeName, err = serial.AsString(raw)
		if err != nil {
			return statusError, "type tag is not a string"
		}
		if typeName == "" {
			return statusError, "type tag is empty"
		}
	}

	if raw, present := doc.Get(serial.DefaultElementTypeKey); present {
		elementType, err := serial.AsString(raw)
		if err != nil || elementType == "" {
			return statusError, "element type tag is not a string"
		}
		if _, hasElements := doc.Get(serial.DefaultElementsKey); !hasElements {
			return statusError, "element type tag without an element list"
		}
	}

	if raw, present := doc.Get(serial.DefaultElementsKey); present {
		list, err := serial.AsList(raw)
		if err != nil {
			return statusError, "element list is not an array"
		}
		for i, element := range list {
			if _, err := serial.AsDocument(element); err != nil {
				return statusError, fmt.Sprintf("element %d is not an object", i)
			}
		}
	}

	if typeName == "" {
		return statusWarn, "no type tag; reflective decode unavailable"
	}
	return statusOK, typeName
}
