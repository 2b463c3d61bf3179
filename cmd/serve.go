package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/uire/internal/clarify"
	"github.com/ziadkadry99/uire/internal/detect"
	mcpserver "github.com/ziadkadry99/uire/internal/mcp"
	"github.com/ziadkadry99/uire/internal/resolve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the ambiguity detection, clarification and intent resolution tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintln(os.Stderr, "uire MCP server started on stdio")

		srv := mcpserver.NewServer(detect.New(), clarify.New(), resolve.New())
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
