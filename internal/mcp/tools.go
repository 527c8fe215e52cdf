package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) todaysPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	today := h.ds.TodaysPlan(ctx)

	result, err := mcp.NewToolResultJSON(today)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) sessionStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.ds.SessionStatus())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) personalBest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise":      exercise,
		"personal_best": h.ds.PersonalBest(exercise),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) exerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	count := req.GetInt("count", 3)
	if count <= 0 {
		return mcp.NewToolResultError("count must be positive"), nil
	}

	weights := h.ds.RecentHistory(exercise, count)
	if weights == nil {
		weights = []int{}
	}
	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": exercise,
		"weights":  weights,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
