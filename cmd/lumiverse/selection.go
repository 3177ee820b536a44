package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lumiverse/internal/pack"
	"lumiverse/internal/settings"
)

const selectUsage = `Slots:
  definition <pack> <item>
  behavior <pack> <item>
  personality <pack> <item>
  loom <category> <pack> <item>   (category: style, utility, retrofit)`

func selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <slot> [category] <pack> <item>",
		Short: "Select an item for a slot",
		Long:  "Select an item for a slot.\n\n" + selectUsage,
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, ref, err := parseSelectionArgs(args)
			if err != nil {
				return err
			}
			ctx := context.Background()
			p, err := openProject(ctx)
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			if err := p.service.Select(ctx, slot, ref); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected %s/%s as %s.\n", ref.PackName, ref.ItemName, slot)
			return nil
		},
	}
}

func deselectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deselect <slot> [category] <pack> <item>",
		Short: "Remove an item from a slot",
		Long:  "Remove an item from a slot.\n\n" + selectUsage,
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, ref, err := parseSelectionArgs(args)
			if err != nil {
				return err
			}
			ctx := context.Background()
			p, err := openProject(ctx)
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			removed, err := p.service.Deselect(ctx, slot, ref)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s was not selected as %s.\n", ref.PackName, ref.ItemName, slot)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deselected %s/%s from %s.\n", ref.PackName, ref.ItemName, slot)
			return nil
		},
	}
}

// parseSelectionArgs reads "<slot> <pack> <item>" or
// "loom <category> <pack> <item>".
func parseSelectionArgs(args []string) (settings.Slot, pack.SelectionRef, error) {
	if args[0] == "loom" {
		if len(args) != 4 {
			return "", pack.SelectionRef{}, fmt.Errorf("loom selections need <category> <pack> <item>")
		}
		slot, err := settings.ParseSlot(args[1])
		if err != nil {
			return "", pack.SelectionRef{}, err
		}
		if slot.Category() == "" {
			return "", pack.SelectionRef{}, fmt.Errorf("%w: %s is not a loom category", settings.ErrUnknownSlot, args[1])
		}
		return slot, pack.SelectionRef{PackName: args[2], ItemName: args[3]}, nil
	}

	if len(args) != 3 {
		return "", pack.SelectionRef{}, fmt.Errorf("expected <slot> <pack> <item>")
	}
	slot, err := settings.ParseSlot(args[0])
	if err != nil {
		return "", pack.SelectionRef{}, err
	}
	return slot, pack.SelectionRef{PackName: args[1], ItemName: args[2]}, nil
}
