package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/nih-reporter-mcp/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search tools over MCP stdio",
	Long: `Serve starts the MCP server on stdin/stdout. The client owns the process
lifetime: the server runs until its stdin closes. Logs go to stderr and the
configured log file.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("starting NIH RePORTER MCP server",
		zap.String("version", version),
		zap.String("reporter_base_url", cfg.Reporter.BaseURL),
		zap.String("pubmed_base_url", cfg.PubMed.BaseURL))

	s := tools.NewServer(newService(), version)
	if err := server.ServeStdio(s); err != nil {
		logger.Error("server terminated", zap.Error(err))
		return err
	}
	return nil
}
