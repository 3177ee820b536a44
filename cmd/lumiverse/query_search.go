package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lumiverse/internal/config"
	"lumiverse/internal/store"
)

func querySearchCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Full-text search over installed items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuerySearch(cmd, strings.Join(args, " "), kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Item kind to filter (lumia or loom)")
	return cmd
}

func runQuerySearch(cmd *cobra.Command, query, kind string) error {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != "" && kind != store.KindLumia && kind != store.KindLoom {
		return fmt.Errorf("invalid kind: %s", kind)
	}

	ctx := context.Background()
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	results, err := db.Search(ctx, query, kind)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No matches found.")
		return nil
	}

	for _, result := range results {
		label := result.Kind
		if result.Category != "" {
			label = result.Category
		}
		fmt.Fprintf(out, "%s/%s (%s) score=%.2f\n", result.PackName, result.ItemName, label, result.Score)
		if result.Snippet != "" {
			fmt.Fprintf(out, "    %s\n", strings.ReplaceAll(result.Snippet, "\n", " "))
		}
	}
	return nil
}
