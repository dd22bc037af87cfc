package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/journal/pkg/journal"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerCreateEntryTool(srv, svc)
	registerUpdateEntryTool(srv, svc)
	registerDeleteEntryTool(srv, svc)
	registerToggleFavoriteTool(srv, svc)
	registerSearchEntriesTool(srv, svc)
	registerGetEntryTool(srv, svc)
	registerCreateGoalTool(srv, svc)
	registerCheckInTool(srv, svc)
	registerSetGoalActiveTool(srv, svc)
	registerDeleteGoalTool(srv, svc)
	registerListGoalsTool(srv, svc)
	registerStartJourneyTool(srv, svc)
	registerAddSnapshotTool(srv, svc)
	registerEndJourneyTool(srv, svc)
	registerListJourneysTool(srv, svc)
}

func moodEnum() []string {
	out := make([]string, 0, 5)
	for _, m := range journal.Moods() {
		out = append(out, string(m))
	}
	return out
}

func entryFieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("content", mcp.Description("Body of the entry. Markdown is fine.")),
		mcp.WithString("title", mcp.Description("Optional title.")),
		mcp.WithString("mood", mcp.Description("How the day felt."), mcp.Enum(moodEnum()...)),
		mcp.WithString("date", mcp.Description("Day of the entry as YYYY-MM-DD or an RFC3339 timestamp. Defaults to now.")),
		mcp.WithString("location", mcp.Description("Free text location, for example a street and city.")),
		mcp.WithString("weather", mcp.Description("Weather text such as 24°C.")),
		mcp.WithArray("tags", mcp.Description("Tags without the leading #."), mcp.Items(map[string]any{"type": "string"})),
	}
}

func registerCreateEntryTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{mcp.WithDescription("Write a new journal entry.")}, entryFieldOptions()...)
	tool := mcp.NewTool("create_entry", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args EntryArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		e, err := svc.AddEntry(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(e)
	})
}

func registerUpdateEntryTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Change fields of an existing entry. Omitted fields stay as they are."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry identifier.")),
	}, entryFieldOptions()...)
	tool := mcp.NewTool("update_entry", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var args EntryArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		e, err := svc.UpdateEntry(ctx, id, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(e)
	})
}

func registerDeleteEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_entry",
		mcp.WithDescription("Delete an entry."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry identifier to delete.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteEntry(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"deleted": id})
	})
}

func registerToggleFavoriteTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_favorite",
		mcp.WithDescription("Flip the favorite flag of an entry."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry identifier.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		e, err := svc.ToggleFavorite(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(e)
	})
}

func registerSearchEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_entries",
		mcp.WithDescription("Find entries by text, tags, favorite flag or day. Newest first."),
		mcp.WithString("query", mcp.Description("Case-insensitive text matched against title and content.")),
		mcp.WithArray("tags", mcp.Description("Match entries carrying any of these tags."), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("favorites", mcp.Description("Only favorite entries.")),
		mcp.WithString("date", mcp.Description("Only entries written on this day, YYYY-MM-DD.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var q EntryQuery
		if err := request.BindArguments(&q); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		results, err := svc.SearchEntries(ctx, q)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   q.Query,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch a single entry by identifier."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry identifier to fetch.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		e, err := svc.EntryByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(e)
	})
}

func registerCreateGoalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_goal",
		mcp.WithDescription("Create a habit goal tracked by daily check-ins."),
		mcp.WithString("title", mcp.Required(), mcp.Description("What the goal is.")),
		mcp.WithString("description", mcp.Description("Optional detail.")),
		mcp.WithNumber("targetDays", mcp.Required(), mcp.Description("Number of check-in days to complete the goal.")),
		mcp.WithString("reminderTime", mcp.Description("Daily reminder time as HH:MM. Omit for no reminder.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GoalArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		g, err := svc.AddGoal(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(g)
	})
}

func registerCheckInTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"check_in_goal",
		mcp.WithDescription("Check a goal in for today. Checking in twice on one day changes nothing."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Goal identifier.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		g, checkedIn, err := svc.CheckIn(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"goal":      g,
			"checkedIn": checkedIn,
		})
	})
}

func registerSetGoalActiveTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_goal_active",
		mcp.WithDescription("Pause or resume a goal."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Goal identifier.")),
		mcp.WithBoolean("active", mcp.Required(), mcp.Description("true to resume, false to pause.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			ID     string `json:"id"`
			Active bool   `json:"active"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		g, err := svc.SetGoalActive(ctx, args.ID, args.Active)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(g)
	})
}

func registerDeleteGoalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_goal",
		mcp.WithDescription("Delete a goal and its check-in history."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Goal identifier.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteGoal(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"deleted": id})
	})
}

func registerListGoalsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_goals",
		mcp.WithDescription("List goals with their streaks and progress."),
		mcp.WithString("status",
			mcp.Description("Only goals with this status."),
			mcp.Enum("all", string(journal.GoalInProgress), string(journal.GoalPaused), string(journal.GoalCompleted)),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		goals, err := svc.ListGoals(ctx, request.GetString("status", "all"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"goals": goals, "count": len(goals)})
	})
}

func registerStartJourneyTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"start_journey",
		mcp.WithDescription("Start tracking a journey. Only one journey can be active at a time."),
		mcp.WithString("theme", mcp.Required(), mcp.Description("Intention or theme of the journey.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		theme, err := request.RequireString("theme")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		j, err := svc.StartJourney(ctx, theme)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(j)
	})
}

func registerAddSnapshotTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_snapshot",
		mcp.WithDescription("Capture a note and mood on the active journey. Position defaults to the latest route point."),
		mcp.WithString("note", mcp.Description("What is happening.")),
		mcp.WithNumber("moodRating", mcp.Description("Mood from 1 to 10."), mcp.Min(1), mcp.Max(10)),
		mcp.WithNumber("latitude", mcp.Description("Latitude in degrees.")),
		mcp.WithNumber("longitude", mcp.Description("Longitude in degrees.")),
		mcp.WithString("address", mcp.Description("Human readable place.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SnapshotArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		snap, err := svc.AddSnapshot(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(snap)
	})
}

func registerEndJourneyTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"end_journey",
		mcp.WithDescription("End the active journey and store its summary."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		j, err := svc.EndJourney(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(j)
	})
}

func registerListJourneysTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_journeys",
		mcp.WithDescription("List journeys, newest first, without their routes."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		journeys, err := svc.ListJourneys(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"journeys": journeys, "count": len(journeys)})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
