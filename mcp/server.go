// Package mcp provides the MCP (Model Context Protocol) surface for Haven.
// It exposes the four companion entry operations plus history logging tools
// so chat-based client surfaces can drive the engine over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperengineering/haven"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with Haven tools.
type Server struct {
	client    *haven.Client
	mcpServer *server.MCPServer
}

// ToolResult represents the result of a tool call.
type ToolResult struct {
	Content string
	IsError bool
}

// ToolInfo represents a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// NewServer creates a new MCP server with Haven tools registered.
func NewServer(client *haven.Client) *Server {
	s := &Server{client: client}

	s.mcpServer = server.NewMCPServer(
		"haven",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// Run starts the MCP server, reading from stdin and writing to stdout.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// HandleMessage processes a raw JSON-RPC message and returns a response.
// This is primarily for testing the MCP protocol layer.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return []ToolInfo{
		{Name: "haven_mood", Description: "Respond to a fresh mood log with support and coping suggestions"},
		{Name: "haven_journal", Description: "Analyze a journal entry for themes and respond with insights and suggestions"},
		{Name: "haven_chat", Description: "Respond to a chat message in light of the user's therapy history"},
		{Name: "haven_checkin", Description: "Generate a proactive check-in message based on recent patterns"},
		{Name: "haven_log_mood", Description: "Append a mood entry to the user's history"},
		{Name: "haven_log_session", Description: "Append a therapy session record to the user's history"},
		{Name: "haven_stats", Description: "Show history store statistics"},
	}
}

// CallTool executes a tool by name with the given arguments.
// This is used for testing and direct invocation.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	switch name {
	case "haven_mood":
		return s.handleMood(ctx, args)
	case "haven_journal":
		return s.handleJournal(ctx, args)
	case "haven_chat":
		return s.handleChat(ctx, args)
	case "haven_checkin":
		return s.handleCheckin(ctx, args)
	case "haven_log_mood":
		return s.handleLogMood(ctx, args)
	case "haven_log_session":
		return s.handleLogSession(ctx, args)
	case "haven_stats":
		return s.handleStats(ctx, args)
	default:
		return &ToolResult{Content: fmt.Sprintf("unknown tool: %s", name), IsError: true}, nil
	}
}

func (s *Server) registerTools() {
	// haven_mood
	s.mcpServer.AddTool(mcp.NewTool("haven_mood",
		mcp.WithDescription("Respond to a fresh mood log. Returns a supportive message plus prioritized coping suggestions keyed to the mood band and any named trigger."),
		mcp.WithNumber("mood",
			mcp.Description("Mood value on a 1-10 scale"),
			mcp.Required(),
		),
		mcp.WithString("trigger",
			mcp.Description("Optional free-text trigger behind the mood"),
		),
		mcp.WithString("user_id",
			mcp.Description("User to load history for (omit for a generic response)"),
		),
	), s.mcpHandleMood)

	// haven_journal
	s.mcpServer.AddTool(mcp.NewTool("haven_journal",
		mcp.WithDescription("Analyze a journal entry. Extracts emotional themes, surfaces insights, and returns theme-aware coping suggestions."),
		mcp.WithString("content",
			mcp.Description("The journal entry text"),
			mcp.Required(),
		),
		mcp.WithString("user_id",
			mcp.Description("User to load history for (omit for a generic response)"),
		),
	), s.mcpHandleJournal)

	// haven_chat
	s.mcpServer.AddTool(mcp.NewTool("haven_chat",
		mcp.WithDescription("Respond to a chat message using the user's therapy history: matched therapeutic techniques, homework reminders, and suggestions."),
		mcp.WithString("message",
			mcp.Description("The user's chat message"),
			mcp.Required(),
		),
		mcp.WithString("user_id",
			mcp.Description("User to load history for (omit for a generic response)"),
		),
	), s.mcpHandleChat)

	// haven_checkin
	s.mcpServer.AddTool(mcp.NewTool("haven_checkin",
		mcp.WithDescription("Generate a proactive check-in chosen from recent patterns: mood-pattern, session-prep, goal-progress, or general-support."),
		mcp.WithString("user_id",
			mcp.Description("User to evaluate patterns for"),
		),
	), s.mcpHandleCheckin)

	// haven_log_mood
	s.mcpServer.AddTool(mcp.NewTool("haven_log_mood",
		mcp.WithDescription("Append a mood entry to the user's history. History writes are plumbing for the engine's read-only context building."),
		mcp.WithString("user_id",
			mcp.Description("User the entry belongs to"),
			mcp.Required(),
		),
		mcp.WithNumber("mood",
			mcp.Description("Mood value on a 1-10 scale"),
			mcp.Required(),
		),
		mcp.WithString("trigger",
			mcp.Description("Optional trigger text"),
		),
	), s.mcpHandleLogMood)

	// haven_log_session
	s.mcpServer.AddTool(mcp.NewTool("haven_log_session",
		mcp.WithDescription("Append a therapy session record: notes, goals, homework, techniques."),
		mcp.WithString("user_id",
			mcp.Description("User the session belongs to"),
			mcp.Required(),
		),
		mcp.WithString("notes",
			mcp.Description("Session notes"),
		),
		mcp.WithArray("goals",
			mcp.Description("Session goals, in order"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("homework",
			mcp.Description("Assigned homework items, in order"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("techniques",
			mcp.Description("Therapeutic techniques used (e.g. CBT, mindfulness)"),
			mcp.WithStringItems(),
		),
	), s.mcpHandleLogSession)

	// haven_stats
	s.mcpServer.AddTool(mcp.NewTool("haven_stats",
		mcp.WithDescription("Show history store statistics: mood entries, journal entries, therapy sessions."),
	), s.mcpHandleStats)
}

// MCP handlers that wrap internal handlers

func (s *Server) mcpHandleMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleMood(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleJournal(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleChat(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleCheckin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleCheckin(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleLogMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleLogMood(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleLogSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleLogSession(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleStats(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func toMCPResult(r *ToolResult) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: r.Content,
			},
		},
	}
	if r.IsError {
		result.IsError = true
	}
	return result
}

// Internal handlers

func (s *Server) handleMood(ctx context.Context, args map[string]any) (*ToolResult, error) {
	mood, ok := args["mood"].(float64)
	if !ok {
		return &ToolResult{Content: "mood is required", IsError: true}, nil
	}

	input := haven.MoodTriggerInput{Mood: int(mood)}
	if trigger, ok := args["trigger"].(string); ok {
		input.Trigger = trigger
	}
	if userID, ok := args["user_id"].(string); ok {
		input.UserID = userID
	}

	msg, err := s.client.HandleMoodTrigger(ctx, input)
	if err != nil {
		return &ToolResult{Content: err.Error(), IsError: true}, nil
	}

	return &ToolResult{Content: formatMessage(msg)}, nil
}

func (s *Server) handleJournal(ctx context.Context, args map[string]any) (*ToolResult, error) {
	content, ok := args["content"].(string)
	if !ok || content == "" {
		return &ToolResult{Content: "content is required", IsError: true}, nil
	}

	input := haven.JournalInput{Content: content}
	if userID, ok := args["user_id"].(string); ok {
		input.UserID = userID
	}

	msg, err := s.client.AnalyzeJournalEntry(ctx, input)
	if err != nil {
		return &ToolResult{Content: err.Error(), IsError: true}, nil
	}

	return &ToolResult{Content: formatMessage(msg)}, nil
}

func (s *Server) handleChat(ctx context.Context, args map[string]any) (*ToolResult, error) {
	message, ok := args["message"].(string)
	if !ok || message == "" {
		return &ToolResult{Content: "message is required", IsError: true}, nil
	}

	input := haven.ChatInput{Message: message}
	if userID, ok := args["user_id"].(string); ok {
		input.UserID = userID
	}

	msg, err := s.client.IntegrateTherapyHistory(ctx, input)
	if err != nil {
		return &ToolResult{Content: err.Error(), IsError: true}, nil
	}

	return &ToolResult{Content: formatMessage(msg)}, nil
}

func (s *Server) handleCheckin(ctx context.Context, args map[string]any) (*ToolResult, error) {
	userID, _ := args["user_id"].(string)

	msg, err := s.client.GenerateProactiveCheckin(ctx, userID)
	if err != nil {
		return &ToolResult{Content: err.Error(), IsError: true}, nil
	}

	return &ToolResult{Content: formatMessage(msg)}, nil
}

func (s *Server) handleLogMood(ctx context.Context, args map[string]any) (*ToolResult, error) {
	userID, ok := args["user_id"].(string)
	if !ok || userID == "" {
		return &ToolResult{Content: "user_id is required", IsError: true}, nil
	}
	mood, ok := args["mood"].(float64)
	if !ok {
		return &ToolResult{Content: "mood is required", IsError: true}, nil
	}

	entry := haven.MoodEntry{UserID: userID, MoodValue: int(mood)}
	if trigger, ok := args["trigger"].(string); ok {
		entry.Trigger = trigger
	}

	logged, err := s.client.Store().LogMood(ctx, entry)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("log mood failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: fmt.Sprintf("Logged mood %d/10 [%s]", logged.MoodValue, logged.ID)}, nil
}

func (s *Server) handleLogSession(ctx context.Context, args map[string]any) (*ToolResult, error) {
	userID, ok := args["user_id"].(string)
	if !ok || userID == "" {
		return &ToolResult{Content: "user_id is required", IsError: true}, nil
	}

	session := haven.TherapySession{
		UserID:     userID,
		Goals:      toStringSlice(args["goals"]),
		Homework:   toStringSlice(args["homework"]),
		Techniques: toStringSlice(args["techniques"]),
	}
	if notes, ok := args["notes"].(string); ok {
		session.Notes = notes
	}

	added, err := s.client.Store().AddSession(ctx, session)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("log session failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: fmt.Sprintf("Recorded therapy session [%s]", added.ID)}, nil
}

func (s *Server) handleStats(_ context.Context, _ map[string]any) (*ToolResult, error) {
	stats, err := s.client.Store().Stats()
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("stats failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: fmt.Sprintf(
		"History store:\n  Mood entries: %d\n  Journal entries: %d\n  Therapy sessions: %d",
		stats.MoodEntries, stats.JournalEntries, stats.TherapySessions,
	)}, nil
}

// Formatting functions

func formatMessage(msg *haven.CompanionMessage) string {
	var sb strings.Builder
	sb.WriteString(msg.Content)
	sb.WriteString("\n")

	meta := msg.Metadata
	fmt.Fprintf(&sb, "\n[%s, confidence %.2f]\n", meta.ResponseType, meta.Confidence)

	if meta.CheckinType != "" {
		fmt.Fprintf(&sb, "Check-in type: %s\n", meta.CheckinType)
	}
	if len(meta.Insights) > 0 {
		sb.WriteString("Insights:\n")
		for _, insight := range meta.Insights {
			fmt.Fprintf(&sb, "  - %s\n", insight)
		}
	}
	if len(meta.RelevantTechniques) > 0 {
		fmt.Fprintf(&sb, "Relevant techniques: %s\n", strings.Join(meta.RelevantTechniques, ", "))
	}
	if len(meta.HomeworkReminders) > 0 {
		sb.WriteString("Homework reminders:\n")
		for _, reminder := range meta.HomeworkReminders {
			fmt.Fprintf(&sb, "  - %s\n", reminder)
		}
	}
	if len(meta.Suggestions) > 0 {
		sb.WriteString("Suggestions:\n")
		for _, suggestion := range meta.Suggestions {
			fmt.Fprintf(&sb, "  [%s] %s (%s)\n      %s\n",
				suggestion.Priority, suggestion.Title, suggestion.Duration, suggestion.Reasoning)
		}
	}

	return sb.String()
}

// toStringSlice converts various array types to []string.
// Handles []any, []string, and nil.
func toStringSlice(v any) []string {
	if v == nil {
		return nil
	}

	switch arr := v.(type) {
	case []string:
		return arr
	case []any:
		result := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}
