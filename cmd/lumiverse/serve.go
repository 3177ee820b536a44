package main

import (
	"context"

	"github.com/spf13/cobra"

	"lumiverse/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	server := mcp.NewServer(p.service, p.db, version, p.logger)
	return server.Run(ctx, &sdk.StdioTransport{})
}
