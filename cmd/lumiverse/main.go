package main

import (
	"os"

	"github.com/spf13/cobra"

	"lumiverse/internal/config"
)

var (
	configPath string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lumiverse",
		Short:        "Import, normalize and select Lumia and Loom content packs",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the project config")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	root.AddCommand(convertCmd())
	root.AddCommand(initCmd())
	root.AddCommand(importCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(packsCmd())
	root.AddCommand(selectCmd())
	root.AddCommand(deselectCmd())
	root.AddCommand(selectionsCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}
