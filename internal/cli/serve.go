package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wwexlabs/freightagent/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	Long: `Serve exposes the conversation engine over HTTP: a turn endpoint, session
history, runtime stats, and a websocket chat transport. The server shuts
down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		orchestrator, err := buildOrchestrator(ctx)
		if err != nil {
			return err
		}

		logger.Info("starting freightagent server",
			"version", Version,
			"addr", cfg.ListenAddr,
			"llm_provider", cfg.LLMProvider,
			"llm_model", cfg.LLMModel)

		srv := server.New(cfg.ListenAddr, orchestrator, collector, logger)
		if err := srv.Run(ctx); err != nil {
			return err
		}

		logger.Info("server stopped")
		return nil
	},
}
