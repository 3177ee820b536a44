package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"lumiverse/internal/settings"
	"lumiverse/internal/store"
)

// StateSource exposes the current settings. *settings.Service satisfies it.
type StateSource interface {
	State() *settings.State
}

type Searcher interface {
	Search(ctx context.Context, query, kind string) ([]store.SearchResult, error)
}

type Server struct {
	states StateSource
	index  Searcher
	logger *zap.Logger
	mcp    *sdk.Server
}

func NewServer(states StateSource, index Searcher, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		states: states,
		index:  index,
		logger: logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "lumiverse",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.logger.Info("mcp server starting")
	return s.mcp.Run(ctx, transport)
}
