// Package mcp exposes the refactoring engine as Model Context Protocol
// tools over stdio, so coding agents can apply mechanically-verified
// edits instead of rewriting files freehand.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/cortex-refactor/internal/refactor"
)

// Server manages the MCP server lifecycle.
type Server struct {
	engine *refactor.Engine
	mcp    *server.MCPServer
}

// NewServer creates an MCP server wrapping the given engine and registers
// the four refactoring tools.
func NewServer(engine *refactor.Engine) *Server {
	mcpServer := server.NewMCPServer(
		"cortex-refactor",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddExtractFunctionTool(mcpServer, engine)
	AddInlineFunctionTool(mcpServer, engine)
	AddMoveMethodTool(mcpServer, engine)
	AddInjectDependenciesTool(mcpServer, engine)

	return &Server{engine: engine, mcp: mcpServer}
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
