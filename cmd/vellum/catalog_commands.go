package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"vellum/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain the document index",
	}

	catalogCmd.AddCommand(newCatalogAddCommand(ctx))
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))
	catalogCmd.AddCommand(newCatalogClearCommand(ctx))

	return catalogCmd
}

func newCatalogAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Index document files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.componentLogger("catalog")
			return ctx.withCatalog(cmd.Context(), func(store *catalog.Store) error {
				for _, path := range args {
					info, err := inspectDocument(path)
					if err != nil {
						return err
					}
					entry, err := store.Put(cmd.Context(), catalog.Entry{
						Path:         info.Path,
						TypeName:     info.TypeName,
						ElementCount: info.ElementCount,
						SizeBytes:    info.SizeBytes,
						ModifiedAt:   info.ModifiedAt,
					})
					if err != nil {
						return err
					}
					logger.Info("indexed document", "path", entry.Path, "type", entry.TypeName)
					fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s\n", entry.Path)
				}
				return nil
			})
		},
	}
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), func(store *catalog.Store) error {
				entries, err := store.List(cmd.Context(), typeFilter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Catalog is empty")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, append(
						documentCells(entry.Path, entry.TypeName, entry.ElementCount, entry.SizeBytes),
						entry.AddedAt.Format(time.RFC3339),
					))
				}
				table := renderDocumentTable([]tableColumn{{title: "Added"}}, rows)
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&typeFilter, "type", "", "Only list documents with this type tag")
	return cmd
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <file>...",
		Short: "Drop documents from the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), func(store *catalog.Store) error {
				for _, path := range args {
					abs, err := filepath.Abs(path)
					if err != nil {
						return fmt.Errorf("resolve path: %w", err)
					}
					removed, err := store.Remove(cmd.Context(), abs)
					if err != nil {
						return err
					}
					if !removed {
						fmt.Fprintf(cmd.OutOrStdout(), "Not indexed: %s\n", abs)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", abs)
				}
				return nil
			})
		},
	}
}

func newCatalogClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every document from the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), func(store *catalog.Store) error {
				n, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
				return nil
			})
		},
	}
}
