package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/report"
	"github.com/abdidvp/contentmod/internal/application"
	"github.com/abdidvp/contentmod/internal/domain"
)

// toolArgs maps request parameter names to tool argument names.
var toolArgs = map[string]string{
	domain.ParamBasePath:     "base_path",
	domain.ParamPropertyName: "property_name",
	domain.ParamOriginal:     "original",
	domain.ParamTarget:       "target",
}

func registerTools(s *server.MCPServer, runner *application.MigrationRunner) {
	s.AddTool(
		mcplib.NewTool("contentmod_modify",
			mcplib.WithDescription("Replace every occurrence of a substring in one string property of all nodes under a base path. Each node is committed on its own; returns the run narrative."),
			mcplib.WithString("base_path",
				mcplib.Required(),
				mcplib.Description("Repository path whose subtree is searched, e.g. /content/site"),
			),
			mcplib.WithString("property_name",
				mcplib.Required(),
				mcplib.Description("Name of the string property to rewrite"),
			),
			mcplib.WithString("original",
				mcplib.Required(),
				mcplib.Description("Substring to replace (literal, case-sensitive)"),
			),
			mcplib.WithString("target",
				mcplib.Required(),
				mcplib.Description("Replacement substring; may be empty"),
			),
			mcplib.WithString("format", mcplib.Description("Output format: text or json (default: text)")),
		),
		handleModify(runner),
	)
}

func handleModify(runner *application.MigrationRunner) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		lookup := func(name string) (string, bool) {
			key, ok := toolArgs[name]
			if !ok {
				return "", false
			}
			v, ok := args[key].(string)
			return v, ok
		}

		if format, _ := args["format"].(string); format == "json" {
			rep, err := runner.RunParams(ctx, lookup, nil)
			if err != nil {
				return errorResult(fmt.Sprintf("run aborted: %v", err)), nil
			}
			return jsonResult(rep)
		}

		var buf bytes.Buffer
		sink := report.NewTextSink(&buf)
		if _, err := runner.RunParams(ctx, lookup, sink); err != nil {
			return errorResult(buf.String()), nil
		}
		return textResult(buf.String()), nil
	}
}

// jsonResult marshals v as indented JSON into a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
