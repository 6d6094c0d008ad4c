package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/pdf-structurer/internal/app"
	"github.com/joseph-ayodele/pdf-structurer/internal/tool"
)

func newMCPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the structure_pdf_document tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireValid(); err != nil {
				return err
			}
			return c.runMCP(cmd.Context())
		},
	}
}

func (c *cli) runMCP(ctx context.Context) error {
	proc, closeFn, err := app.NewProcessor(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	store := app.NewStore(c.cfg, c.logger)
	defer func() { _ = store.Close() }()

	server := mcp.NewServer(&mcp.Implementation{Name: "pdf-structurer", Version: version}, nil)
	tool.NewStructureTool(proc, store, c.cfg.Extract.MaxBytes, c.logger).Register(server)

	c.logger.Info("mcp.start", "transport", "stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}
