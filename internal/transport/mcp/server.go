// Package mcp exposes the narrative pipeline as MCP tools over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/internal/service/decision"
	"github.com/sandevgo/taleforge/internal/service/extract"
	"github.com/sandevgo/taleforge/pkg/log"
)

const serverName = core.AppName + " Narrator"

type Player interface {
	Play(ctx context.Context, req core.TurnRequest) (core.TurnResult, error)
}

type Server struct {
	mcpServer *server.MCPServer
}

type TextInput struct {
	Text string `json:"text"`
}

type CharactersResult struct {
	Characters []core.CharacterRecord `json:"characters"`
}

type AnalyzeInput struct {
	Action  string              `json:"action"`
	History []core.HistoryEntry `json:"history,omitempty"`
}

func New(player Player) (*Server, error) {
	if player == nil {
		return nil, errors.New("mcp server requires a turn player")
	}

	s := server.NewMCPServer(
		serverName,
		core.AppVersion,
		server.WithToolCapabilities(false),
	)
	s.AddTool(playTurnTool(), playTurnHandler(player))
	s.AddTool(extractCharactersTool(), extractCharactersHandler)
	s.AddTool(analyzeActionTool(), analyzeActionHandler)

	return &Server{mcpServer: s}, nil
}

// Serve blocks serving stdio until the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	log.FromCtx(ctx).Info().Msg("serving MCP on stdio")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func playTurnTool() mcp.Tool {
	return mcp.NewTool(
		"play_turn",
		mcp.WithDescription("Narrates the next story turn for a player action. "+
			"Pass the previous turns as history and the memory returned by the last call."),
		mcp.WithInputSchema[core.TurnRequest](),
		mcp.WithOutputSchema[core.TurnResult](),
	)
}

func playTurnHandler(player Player) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req core.TurnRequest
		if err := request.BindArguments(&req); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid turn arguments", err), nil
		}
		if strings.TrimSpace(req.Action) == "" && len(req.History) > 0 {
			return mcp.NewToolResultError("action is required after the first turn"), nil
		}

		res, err := player.Play(ctx, req)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("turn failed", err), nil
		}
		return mcp.NewToolResultStructured(res, res.Text), nil
	}
}

func extractCharactersTool() mcp.Tool {
	return mcp.NewTool(
		"extract_characters",
		mcp.WithDescription("Lists the non-player characters mentioned in a narrator reply"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Narrator reply text")),
		mcp.WithOutputSchema[CharactersResult](),
	)
}

func extractCharactersHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in TextInput
	if err := request.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	return mcp.NewToolResultStructuredOnly(CharactersResult{Characters: extract.Characters(in.Text)}), nil
}

func analyzeActionTool() mcp.Tool {
	return mcp.NewTool(
		"analyze_action",
		mcp.WithDescription("Classifies the emotional tone of a player action and whether it is a major choice"),
		mcp.WithInputSchema[AnalyzeInput](),
		mcp.WithOutputSchema[core.DecisionAnalysis](),
	)
}

func analyzeActionHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in AnalyzeInput
	if err := request.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}
	return mcp.NewToolResultStructuredOnly(decision.Analyze(in.Action, in.History)), nil
}
