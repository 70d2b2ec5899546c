package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/lmsenv/internal/logger"
	"github.com/mark3labs/lmsenv/internal/requestmcp"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	addr string
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the request tools over MCP",
	Long: `Start an MCP server exposing the request tools over streamable HTTP:

  list-scenarios    the scenario presets
  preview-request   render a request as the preview document and payload
  submit-request    submit a request to the backend
  list-requests     the submitted requests and their state

The server runs until interrupted.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpFlags.addr, "addr", "127.0.0.1:8765", "Listen address (port 0 picks a free port)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := requestmcp.New(newClient(cfg), cfg.Environments)
	if _, err := srv.Start(ctx, mcpFlags.addr); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	fmt.Printf("MCP server listening on %s\n", srv.URL())

	<-ctx.Done()
	logger.Info("Shutting down MCP server")
	return srv.Stop()
}
