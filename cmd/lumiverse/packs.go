package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"lumiverse/internal/pack"
	"lumiverse/internal/settings"
)

func packsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packs",
		Short: "Inspect and remove installed packs",
	}
	cmd.AddCommand(packsListCmd())
	cmd.AddCommand(packsShowCmd())
	cmd.AddCommand(packsRemoveCmd())
	return cmd
}

func packsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed packs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := openProject(ctx)
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			packs := p.service.State().SortedPacks()
			out := cmd.OutOrStdout()
			if len(packs) == 0 {
				fmt.Fprintln(out, "No packs installed.")
				return nil
			}
			for _, pk := range packs {
				fmt.Fprintf(out, "%s  lumia=%d loom=%d", pk.PackName, len(pk.LumiaItems), len(pk.LoomItems))
				if author := pack.Value(pk.PackAuthor); author != "" {
					fmt.Fprintf(out, "  by %s", author)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func packsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <pack>",
		Short: "Print a pack as canonical JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := openProject(ctx)
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			pk, ok := p.service.State().Packs[args[0]]
			if !ok {
				return fmt.Errorf("%w: %s", settings.ErrPackNotFound, args[0])
			}
			data, err := json.MarshalIndent(pk, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding pack: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func packsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <pack>",
		Short: "Remove a pack and every selection that points into it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := openProject(ctx)
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			if err := p.service.RemovePack(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed pack %q.\n", args[0])
			return nil
		},
	}
}
