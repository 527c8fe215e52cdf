// Package mcp exposes the engine's workout data to model-context-protocol
// clients: today's plan, the live session position, and per-exercise
// performance history.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	engine "github.com/meltforce/amson/internal/server"
)

// DataSource abstracts the engine for MCP tools. *server.Server satisfies it.
type DataSource interface {
	TodaysPlan(ctx context.Context) *engine.Today
	SessionStatus() engine.SessionStatus
	PersonalBest(name string) int
	RecentHistory(name string, n int) []int
}

var _ DataSource = (*engine.Server)(nil)

// New creates an MCP server with all tools registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Amson", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Amson workout engine. Query today's planned exercises, the current session position, and recorded weight history per exercise."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolTodaysPlan, Handler: h.todaysPlan},
		server.ServerTool{Tool: toolSessionStatus, Handler: h.sessionStatus},
		server.ServerTool{Tool: toolPersonalBest, Handler: h.personalBest},
		server.ServerTool{Tool: toolExerciseHistory, Handler: h.exerciseHistory},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Tool definitions ---

var toolTodaysPlan = mcp.NewTool("get_todays_plan",
	mcp.WithDescription("Get today's resolved workout: the day name, where it came from (pack or local plan), and the ordered exercise list."),
)

var toolSessionStatus = mcp.NewTool("get_session_status",
	mcp.WithDescription("Get the current workout session: state, current exercise, set position, and recent weights for the current exercise."),
)

var toolPersonalBest = mcp.NewTool("get_personal_best",
	mcp.WithDescription("Get the heaviest weight ever recorded for an exercise."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, e.g. 'Bench Press'")),
)

var toolExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Get the most recent recorded weights for an exercise, oldest first."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithNumber("count", mcp.Description("How many entries to return. Defaults to 3.")),
)
