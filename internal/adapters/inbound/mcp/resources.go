package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/contentmod/internal/domain"
)

const runsURI = "contentmod://runs"

func registerResources(s *server.MCPServer, journal domain.RunJournal) {
	if journal == nil {
		return
	}

	// 1. contentmod://runs - every journaled run
	s.AddResource(
		mcplib.NewResource(
			runsURI,
			"Run History",
			mcplib.WithResourceDescription("Summaries of past content modification runs"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRunsResource(journal),
	)

	// 2. contentmod://runs/{id} - one run (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			runsURI+"/{id}",
			"Run",
			mcplib.WithTemplateDescription("Summary of a single content modification run"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleRunResource(journal),
	)
}

func handleRunsResource(journal domain.RunJournal) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		records, err := journal.Load()
		if err != nil {
			return nil, fmt.Errorf("loading journal: %w", err)
		}
		if records == nil {
			records = []domain.RunRecord{}
		}
		return jsonContents(runsURI, records)
	}
}

func handleRunResource(journal domain.RunJournal) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		id := templateArg(request.Params.Arguments, "id")
		if id == "" {
			return nil, fmt.Errorf("run id is required")
		}

		records, err := journal.Load()
		if err != nil {
			return nil, fmt.Errorf("loading journal: %w", err)
		}
		for _, r := range records {
			if r.RunID == id {
				return jsonContents(request.Params.URI, r)
			}
		}
		return nil, fmt.Errorf("run %q not found", id)
	}
}

// templateArg reads a URI template variable. The server fills template
// variables as []string; a plain string is accepted too.
func templateArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
