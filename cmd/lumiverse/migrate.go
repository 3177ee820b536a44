package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade stored legacy settings to the pack format",
		Long:  "Load the stored settings, converting a legacy flat library into a pack and\nrewriting index-based selections by name, then persist the result.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := openProject(ctx)
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			if err := p.service.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings are at schema version %d with %d pack(s).\n",
				p.service.State().SchemaVersion, len(p.service.State().Packs))
			return nil
		},
	}
}
