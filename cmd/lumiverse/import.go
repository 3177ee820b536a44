package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lumiverse/internal/parser"
)

func importCmd() *cobra.Command {
	var packName string
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Convert a file and add it to the installed packs",
		Long:  "Convert a file and add it to the installed packs. Importing into an existing\npack merges: Lumia items replace by name and Loom items are appended.\nUse --replace to overwrite the pack instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], packName, replace)
		},
	}
	cmd.Flags().StringVar(&packName, "name", "", "Pack name (defaults to the payload's name, then the file name)")
	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite an existing pack instead of merging")
	return cmd
}

func runImport(cmd *cobra.Command, path, packName string, replace bool) error {
	ctx := context.Background()

	payload, err := parser.ParseFile(path)
	if err != nil {
		return err
	}

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	importFn := p.service.Import
	if replace {
		importFn = p.service.Replace
	}
	result, err := importFn(ctx, packName, sourceName(path), payload)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported pack %q.\n", result.Pack.PackName)
	fmt.Fprintf(out, "  Lumia items: %d\n", result.LumiaItems)
	fmt.Fprintf(out, "  Loom items:  %d\n", result.LoomItems)
	if result.Skipped > 0 {
		fmt.Fprintf(out, "  Skipped:     %d\n", result.Skipped)
	}
	return nil
}
