package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"lumiverse/internal/ingest"
	"lumiverse/internal/pack"
	"lumiverse/internal/parser"
	"lumiverse/internal/settings"
	"lumiverse/internal/store"
)

type ListPacksInput struct{}

type GetPackInput struct {
	Name string `json:"name" jsonschema:"pack name"`
}

type GetSelectionsInput struct{}

type SearchItemsInput struct {
	Query string `json:"query" jsonschema:"search terms"`
	Kind  string `json:"kind,omitempty" jsonschema:"restrict to lumia or loom items"`
}

type ConvertPayloadInput struct {
	Payload string `json:"payload" jsonschema:"JSON text of a pack, world book or legacy item list"`
	Name    string `json:"name,omitempty" jsonschema:"pack name to use when the payload carries none"`
}

type PackSummaryOutput struct {
	Name       string `json:"name"`
	Author     string `json:"author,omitempty"`
	SourceURL  string `json:"source_url,omitempty"`
	LumiaItems int    `json:"lumia_items"`
	LoomItems  int    `json:"loom_items"`
}

type ListPacksOutput struct {
	Packs []PackSummaryOutput `json:"packs"`
}

type GetPackOutput struct {
	Pack pack.Pack `json:"pack"`
}

type SelectionsOutput struct {
	Definition    string   `json:"definition,omitempty"`
	Behaviors     []string `json:"behaviors"`
	Personalities []string `json:"personalities"`
	LoomStyles    []string `json:"loom_styles"`
	LoomUtilities []string `json:"loom_utilities"`
	LoomRetrofits []string `json:"loom_retrofits"`
}

type SearchResultOutput struct {
	Pack     string  `json:"pack"`
	Item     string  `json:"item"`
	Kind     string  `json:"kind"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet,omitempty"`
}

type SearchItemsOutput struct {
	Results []SearchResultOutput `json:"results"`
}

type ConvertPayloadOutput struct {
	Format     string    `json:"format"`
	LumiaItems int       `json:"lumia_items"`
	LoomItems  int       `json:"loom_items"`
	Skipped    int       `json:"skipped"`
	Pack       pack.Pack `json:"pack"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_packs",
		Description: "List installed packs with item counts",
	}, s.handleListPacks)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_pack",
		Description: "Retrieve a pack and all of its items",
	}, s.handleGetPack)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_selections",
		Description: "Return the currently selected items that still resolve",
	}, s.handleGetSelections)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_items",
		Description: "Full-text search over Lumia and Loom items",
	}, s.handleSearchItems)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "convert_payload",
		Description: "Convert a payload to a canonical pack without installing it",
	}, s.handleConvertPayload)
}

func (s *Server) handleListPacks(ctx context.Context, req *sdk.CallToolRequest, input ListPacksInput) (*sdk.CallToolResult, ListPacksOutput, error) {
	packs := s.states.State().SortedPacks()
	out := make([]PackSummaryOutput, 0, len(packs))
	for _, p := range packs {
		out = append(out, PackSummaryOutput{
			Name:       p.PackName,
			Author:     pack.Value(p.PackAuthor),
			SourceURL:  p.SourceURL,
			LumiaItems: len(p.LumiaItems),
			LoomItems:  len(p.LoomItems),
		})
	}
	return nil, ListPacksOutput{Packs: out}, nil
}

func (s *Server) handleGetPack(ctx context.Context, req *sdk.CallToolRequest, input GetPackInput) (*sdk.CallToolResult, GetPackOutput, error) {
	if input.Name == "" {
		return nil, GetPackOutput{}, fmt.Errorf("name is required")
	}
	p, ok := s.states.State().Packs[input.Name]
	if !ok || p == nil {
		return nil, GetPackOutput{}, fmt.Errorf("%w: %s", settings.ErrPackNotFound, input.Name)
	}
	return nil, GetPackOutput{Pack: *p.Clone()}, nil
}

func (s *Server) handleGetSelections(ctx context.Context, req *sdk.CallToolRequest, input GetSelectionsInput) (*sdk.CallToolResult, SelectionsOutput, error) {
	resolved := s.states.State().Resolve()
	out := SelectionsOutput{
		Behaviors:     lumiaNames(resolved.Behaviors),
		Personalities: lumiaNames(resolved.Personalities),
		LoomStyles:    loomNames(resolved.LoomStyles),
		LoomUtilities: loomNames(resolved.LoomUtilities),
		LoomRetrofits: loomNames(resolved.LoomRetrofits),
	}
	if resolved.Definition != nil {
		out.Definition = resolved.Definition.LumiaName
	}
	return nil, out, nil
}

func (s *Server) handleSearchItems(ctx context.Context, req *sdk.CallToolRequest, input SearchItemsInput) (*sdk.CallToolResult, SearchItemsOutput, error) {
	if input.Query == "" {
		return nil, SearchItemsOutput{}, fmt.Errorf("query is required")
	}
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if kind != "" && kind != store.KindLumia && kind != store.KindLoom {
		return nil, SearchItemsOutput{}, fmt.Errorf("invalid kind: %s", input.Kind)
	}
	results, err := s.index.Search(ctx, input.Query, kind)
	if err != nil {
		return nil, SearchItemsOutput{}, err
	}

	out := make([]SearchResultOutput, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResultOutput{
			Pack:     r.PackName,
			Item:     r.ItemName,
			Kind:     r.Kind,
			Category: r.Category,
			Score:    r.Score,
			Snippet:  r.Snippet,
		})
	}
	return nil, SearchItemsOutput{Results: out}, nil
}

func (s *Server) handleConvertPayload(ctx context.Context, req *sdk.CallToolRequest, input ConvertPayloadInput) (*sdk.CallToolResult, ConvertPayloadOutput, error) {
	payload, err := parser.ParsePayload([]byte(input.Payload), false)
	if err != nil {
		return nil, ConvertPayloadOutput{}, err
	}
	result, err := ingest.Convert(input.Name, payload, ingest.Options{Logger: s.logger})
	if err != nil {
		return nil, ConvertPayloadOutput{}, err
	}
	s.logger.Debug("converted payload over mcp",
		zap.String("format", string(result.Format)),
		zap.Int("skipped", result.Skipped),
	)
	return nil, ConvertPayloadOutput{
		Format:     string(result.Format),
		LumiaItems: result.LumiaItems,
		LoomItems:  result.LoomItems,
		Skipped:    result.Skipped,
		Pack:       *result.Pack,
	}, nil
}

func lumiaNames(items []pack.LumiaItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.LumiaName)
	}
	return names
}

func loomNames(items []pack.LoomItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.LoomName)
	}
	return names
}
