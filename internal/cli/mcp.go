package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cortex-refactor/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the refactoring engine as an MCP server on stdio",
	Long: `MCP starts a Model Context Protocol server exposing the four
refactorings as tools (refactor_extract_function, refactor_inline_function,
refactor_move_method, refactor_inject_dependencies) so coding agents can
apply mechanically-verified edits.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	engine, closer, err := newEngine()
	if err != nil {
		return err
	}
	defer closer()

	server := mcp.NewServer(engine)
	return server.Serve(context.Background())
}
