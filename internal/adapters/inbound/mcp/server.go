package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/contentmod/internal/application"
	"github.com/abdidvp/contentmod/internal/domain"
)

// NewContentModMCPServer creates an MCP server exposing the content
// modification tool and the run journal. journal may be nil.
func NewContentModMCPServer(runner *application.MigrationRunner, journal domain.RunJournal, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"contentmod",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, runner)
	registerResources(s, journal)

	return s
}
