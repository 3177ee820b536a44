package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lumiverse/internal/config"
	"lumiverse/internal/ingest"
	"lumiverse/internal/parser"
)

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Convert a world book, legacy library or pack file to a canonical pack",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			return runConvert(cmd, args[0], output)
		},
	}
}

func runConvert(cmd *cobra.Command, input, output string) error {
	logger, err := newLogger(config.DefaultLogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if output == "" {
		output = defaultOutputPath(input)
	}

	payload, err := parser.ParseFile(input)
	if err != nil {
		return err
	}
	result, err := ingest.Convert(sourceName(input), payload, ingest.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("converting %s: %w", input, err)
	}

	data, err := json.MarshalIndent(result.Pack, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pack: %w", err)
	}
	if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converted %s (%s).\n", input, result.Format)
	fmt.Fprintf(out, "  Lumia items: %d\n", result.LumiaItems)
	fmt.Fprintf(out, "  Loom items:  %d\n", result.LoomItems)
	if result.Skipped > 0 {
		fmt.Fprintf(out, "  Skipped:     %d\n", result.Skipped)
	}
	fmt.Fprintf(out, "Wrote %s\n", output)
	return nil
}

func defaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".converted.json"
}

// sourceName derives a pack name from a file path.
func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
