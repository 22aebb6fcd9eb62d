package cli

import (
	mcpadapter "github.com/abdidvp/contentmod/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the contentmod MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(a))
	return cmd
}

func newMCPServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start contentmod MCP server (stdio)",
		Long:  "Start the contentmod MCP server using stdio transport. Assistants can run content modifications and read the run history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			s := mcpadapter.NewContentModMCPServer(rt.runner, rt.journal, version)
			return server.ServeStdio(s)
		},
	}
}
