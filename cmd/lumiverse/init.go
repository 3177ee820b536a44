package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lumiverse/internal/config"
)

func initCmd() *cobra.Command {
	var projectName string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new lumiverse project config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(cmd, projectName, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dsn, "dsn", config.DefaultDSN, "Database DSN (sqlite:// or postgres://)")
	return cmd
}

func runInit(cmd *cobra.Command, projectName, dsn string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if config.DriverFor(dsn) == "" {
		return fmt.Errorf("unsupported database dsn %q", dsn)
	}

	cfg := config.Default(projectName)
	cfg.Database.DSN = dsn
	contents, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
