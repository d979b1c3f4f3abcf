package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ideabank/ideabank/pkg/cli/config"
	httpctrl "github.com/ideabank/ideabank/pkg/controller/http"
	"github.com/ideabank/ideabank/pkg/service/embedding"
	"github.com/ideabank/ideabank/pkg/service/scheduler"
	"github.com/ideabank/ideabank/pkg/usecase"
	"github.com/ideabank/ideabank/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var reminderInterval time.Duration
	var searchLimit int
	var searchThreshold float64
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var tuningCfg config.Tuning

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("IDEABANK_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "reminder-interval",
			Usage:       "Polling interval for due reminders",
			Value:       time.Minute,
			Sources:     cli.EnvVars("IDEABANK_REMINDER_INTERVAL"),
			Destination: &reminderInterval,
		},
		&cli.IntFlag{
			Name:        "search-limit",
			Usage:       "Default semantic search result limit (0 = built-in default)",
			Sources:     cli.EnvVars("IDEABANK_SEARCH_LIMIT"),
			Destination: &searchLimit,
		},
		&cli.FloatFlag{
			Name:        "search-threshold",
			Usage:       "Default minimum similarity score for search results (0 = built-in default)",
			Sources:     cli.EnvVars("IDEABANK_SEARCH_THRESHOLD"),
			Destination: &searchThreshold,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, tuningCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Load the tuning file
			indexCfg, searchCfg, err := tuningCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load tuning")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx, indexCfg)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Initialize the embedding client
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			embedder, err := embedding.New(llmClient, indexCfg.Dimension)
			if err != nil {
				return goerr.Wrap(err, "failed to create embedding client")
			}

			// tuning file sets the defaults, explicit flags win
			opts := []usecase.Option{
				usecase.WithSearchLimit(searchCfg.Limit),
				usecase.WithSearchOverFetch(searchCfg.OverFetch),
			}
			if searchCfg.Threshold > 0 {
				opts = append(opts, usecase.WithSearchThreshold(searchCfg.Threshold))
			}
			opts = append(opts, usecase.WithSearchLimit(searchLimit))
			if searchThreshold > 0 {
				opts = append(opts, usecase.WithSearchThreshold(searchThreshold))
			}
			uc := usecase.New(repo, embedder, opts...)

			// Start the reminder scheduler
			sched := scheduler.New(uc, &scheduler.LogNotifier{}, reminderInterval)
			if err := sched.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start reminder scheduler")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "backend", repoCfg.Backend())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				sched.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				sched.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
