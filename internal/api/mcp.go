package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/eduforge/eduforge/internal/personalize"
	"github.com/eduforge/eduforge/internal/storage"
	"github.com/eduforge/eduforge/internal/studysheet"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store  *storage.Store
	Sheets *studysheet.Assembler
}

// NewMCPServer creates an MCP server exposing study sheet generation,
// recommendations, and practice question tools over stdio.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"eduforge",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("eduforge serves personalized study sheets, recommendations, and practice questions from the local content library."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_study_sheet",
			mcp.WithDescription("Generate a personalized study sheet for a topic."),
			mcp.WithString("username", mcp.Description("User to personalize for"), mcp.Required()),
			mcp.WithString("topic_id", mcp.Description("Topic to cover"), mcp.Required()),
		),
		mcpStudySheet(deps),
	)

	s.AddTool(
		mcp.NewTool("recommend_content",
			mcp.WithDescription("Recommend content records matching a user's learning preferences."),
			mcp.WithString("username", mcp.Description("User to personalize for"), mcp.Required()),
			mcp.WithString("topic_id", mcp.Description("Optional topic to restrict recommendations to")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 5)")),
		),
		mcpRecommend(deps),
	)

	s.AddTool(
		mcp.NewTool("practice_questions",
			mcp.WithDescription("Generate personalized fill-in-the-blank practice questions for a topic."),
			mcp.WithString("username", mcp.Description("User to personalize for"), mcp.Required()),
			mcp.WithString("topic_id", mcp.Description("Topic to draw questions from"), mcp.Required()),
			mcp.WithNumber("count", mcp.Description("Number of questions (default 5)")),
		),
		mcpPracticeQuestions(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"eduforge://catalog",
			"Content Catalog",
			mcp.WithResourceDescription("All subjects and topics as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCatalog(deps),
	)

	return s
}

// mcpUser resolves the username argument to a stored user.
func mcpUser(deps MCPDeps, req mcp.CallToolRequest) (storage.User, *mcp.CallToolResult) {
	username, err := req.RequireString("username")
	if err != nil {
		return storage.User{}, mcpError("username is required")
	}
	user, err := deps.Store.GetUserByUsername(username)
	if err != nil {
		return storage.User{}, mcpError(fmt.Sprintf("unknown user %q", username))
	}
	return user, nil
}

func mcpStudySheet(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, errResult := mcpUser(deps, req)
		if errResult != nil {
			return errResult, nil
		}
		topicID, err := req.RequireString("topic_id")
		if err != nil {
			return mcpError("topic_id is required"), nil
		}

		records, err := deps.Store.ListContents(storage.ContentFilter{TopicID: topicID})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list contents: %v", err)), nil
		}

		sheet := deps.Sheets.Assemble(topicID, user.Preferences.KnowledgeLevel, records)
		b, err := json.Marshal(sheet)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal sheet: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRecommend(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, errResult := mcpUser(deps, req)
		if errResult != nil {
			return errResult, nil
		}

		limit := req.GetInt("limit", 5)
		if limit <= 0 {
			limit = 5
		}
		if limit > 50 {
			limit = 50
		}

		records, err := deps.Store.ListContents(storage.ContentFilter{TopicID: req.GetString("topic_id", "")})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list contents: %v", err)), nil
		}

		index := personalize.Train(records)
		ids := index.Query(user.Preferences.Vector(), limit)

		type recommendation struct {
			ID         string  `json:"id"`
			TopicID    string  `json:"topic_id"`
			Type       string  `json:"type"`
			Title      string  `json:"title"`
			Difficulty float64 `json:"difficulty"`
		}
		results := make([]recommendation, 0, len(ids))
		for _, rec := range records {
			for _, id := range ids {
				if rec.ID == id {
					results = append(results, recommendation{
						ID:         rec.ID,
						TopicID:    rec.TopicID,
						Type:       rec.Type,
						Title:      rec.Title,
						Difficulty: rec.Difficulty,
					})
					break
				}
			}
		}

		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpPracticeQuestions(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, errResult := mcpUser(deps, req)
		if errResult != nil {
			return errResult, nil
		}
		topicID, err := req.RequireString("topic_id")
		if err != nil {
			return mcpError("topic_id is required"), nil
		}

		count := req.GetInt("count", 5)
		if count <= 0 {
			count = 5
		}
		if count > 20 {
			count = 20
		}

		records, err := deps.Store.ListContents(storage.ContentFilter{TopicID: topicID})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list contents: %v", err)), nil
		}

		questions := studysheet.PersonalizedQuestions(records, user.Preferences.KnowledgeLevel, count)
		if questions == nil {
			questions = []studysheet.Question{}
		}
		b, err := json.Marshal(questions)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal questions: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceCatalog(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		subjects, err := deps.Store.ListSubjects()
		if err != nil {
			return nil, fmt.Errorf("failed to list subjects: %w", err)
		}
		topics, err := deps.Store.ListTopics("")
		if err != nil {
			return nil, fmt.Errorf("failed to list topics: %w", err)
		}

		b, err := json.Marshal(map[string]any{
			"subjects": subjects,
			"topics":   topics,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
