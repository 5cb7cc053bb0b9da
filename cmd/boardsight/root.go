package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/boardsight/internal/agent"
	"github.com/hyperengineering/boardsight/internal/answer"
	"github.com/hyperengineering/boardsight/internal/api"
	"github.com/hyperengineering/boardsight/internal/assistant"
	"github.com/hyperengineering/boardsight/internal/board"
	"github.com/hyperengineering/boardsight/internal/config"
	"github.com/hyperengineering/boardsight/internal/intent"
	"github.com/hyperengineering/boardsight/internal/llm"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "boardsight",
	Short: "Boardsight - board metrics Q&A service",
	RunE:  run,
}

// boardClientTimeout bounds a single GraphQL round trip.
const boardClientTimeout = 30 * time.Second

// buildAssistant wires the full question pipeline from configuration.
func buildAssistant(cfg *config.Config) *assistant.Service {
	boards := board.NewCache(
		board.NewHTTPClient(cfg.Board.APIURL, cfg.Board.APIKey, boardClientTimeout),
		time.Duration(cfg.Cache.TTL),
	)
	completer := llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.Model)

	svc := assistant.New(
		boards,
		cfg.Board.DealsBoardID,
		cfg.Board.WorkOrdersBoardID,
		intent.NewResolver(completer),
		answer.NewSynthesizer(completer),
	)
	if cfg.Agent.Enabled {
		svc.WithAgent(agent.New(completer, svc, cfg.Agent.MaxSteps))
		slog.Info("agent enabled", "max_steps", cfg.Agent.MaxSteps)
	}
	return svc
}

func run(cmd *cobra.Command, args []string) error {
	// Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level)

	// Wire the question pipeline
	svc := buildAssistant(cfg)
	slog.Info("assistant initialized",
		"model", cfg.LLM.Model,
		"deals_board", cfg.Board.DealsBoardID,
		"work_orders_board", cfg.Board.WorkOrdersBoardID,
	)

	// Initialize HTTP router
	handler := api.NewHandler(svc, cfg.Auth.APIKey, Version, cfg.LLM.Model)
	router := api.NewRouter(handler)

	// Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		// Any other error indicates an actual server failure that should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	// Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// Graceful shutdown (drains in-flight requests)
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
