package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lumiverse/internal/parser"
	"lumiverse/internal/watch"
)

func watchCmd() *cobra.Command {
	var packName string
	cmd := &cobra.Command{
		Use:   "watch <file>...",
		Short: "Import files and re-import them whenever they change",
		Long:  "Import each file, then replace the installed pack every time the file is saved.\nSelections are kept across reloads.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if packName != "" && len(args) > 1 {
				return fmt.Errorf("--name can only be used with a single file")
			}
			return runWatch(cmd, args, packName)
		},
	}
	cmd.Flags().StringVar(&packName, "name", "", "Pack name (single file only)")
	return cmd
}

func runWatch(cmd *cobra.Command, paths []string, packName string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(context.Background())

	reload := func(ctx context.Context, path string) error {
		payload, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		result, err := p.service.Replace(ctx, packName, sourceName(path), payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %q from %s (lumia=%d loom=%d skipped=%d)\n",
			result.Pack.PackName, path, result.LumiaItems, result.LoomItems, result.Skipped)
		return nil
	}

	w, err := watch.New(paths, watch.Options{Logger: p.logger})
	if err != nil {
		return err
	}
	for _, path := range w.Files() {
		if err := reload(ctx, path); err != nil {
			p.logger.Warn("initial import failed", zap.String("path", path), zap.Error(err))
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Watching for changes. Press Ctrl+C to stop.")
	return w.Run(ctx, reload)
}
