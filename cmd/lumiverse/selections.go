package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lumiverse/internal/pack"
)

func selectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selections",
		Short: "Print the current selections that still resolve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := openProject(ctx)
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			resolved := p.service.State().Resolve()
			out := cmd.OutOrStdout()

			definition := "(none)"
			if resolved.Definition != nil {
				definition = resolved.Definition.LumiaName
			}
			fmt.Fprintf(out, "Definition:     %s\n", definition)
			printLumia(out, "Behaviors:", resolved.Behaviors)
			printLumia(out, "Personalities:", resolved.Personalities)
			printLoom(out, string(pack.CategoryNarrativeStyle)+":", resolved.LoomStyles)
			printLoom(out, string(pack.CategoryUtilities)+":", resolved.LoomUtilities)
			printLoom(out, string(pack.CategoryRetrofits)+":", resolved.LoomRetrofits)
			return nil
		},
	}
}

func printLumia(out io.Writer, label string, items []pack.LumiaItem) {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.LumiaName)
	}
	printNames(out, label, names)
}

func printLoom(out io.Writer, label string, items []pack.LoomItem) {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.LoomName)
	}
	printNames(out, label, names)
}

func printNames(out io.Writer, label string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(out, "%-15s (none)\n", label)
		return
	}
	fmt.Fprintf(out, "%-15s %s\n", label, names[0])
	for _, name := range names[1:] {
		fmt.Fprintf(out, "%-15s %s\n", "", name)
	}
}
