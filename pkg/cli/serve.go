package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/cli/config"
	controller "github.com/secmon-lab/preen/pkg/controller/http"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/service/llm"
	"github.com/secmon-lab/preen/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		sitesCfg     config.Sites
		secretsCfg   config.Secrets
		browserCfg   config.Browser
		geminiCfg    config.Gemini
		slackCfg     config.Slack
		firestoreCfg config.Firestore
		execCfg      config.Execution
	)

	flags := joinFlags(
		serverCfg.Flags(),
		sitesCfg.Flags(),
		secretsCfg.Flags(),
		browserCfg.Flags(),
		geminiCfg.Flags(),
		slackCfg.Flags(),
		firestoreCfg.Flags(),
		execCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server exposing the trigger and run history API",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := execCfg.Validate(); err != nil {
				return err
			}

			logger.Info("Starting preen server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("sites", sitesCfg),
				slog.Any("secrets", secretsCfg),
				slog.Any("browser", browserCfg),
				slog.Any("gemini", geminiCfg),
				slog.Any("slack", slackCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("execution", execCfg),
			)

			sites, err := sitesCfg.Configure()
			if err != nil {
				return err
			}

			credentials, err := secretsCfg.Configure()
			if err != nil {
				return err
			}

			driver, err := browserCfg.Configure()
			if err != nil {
				return err
			}
			defer func() {
				if err := driver.Close(); err != nil {
					logger.Warn("Failed to close browser driver", "error", err)
				}
			}()

			var oracle interfaces.MutationOracle
			if gollemClient := geminiCfg.ConfigureOptional(ctx, logger); gollemClient != nil {
				oracle = llm.New(gollemClient)
			} else {
				oracle = llm.Disabled()
			}

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			opts := []usecase.RefreshOption{
				usecase.WithRepository(repo),
				usecase.WithInterSiteDelay(execCfg.InterSiteDelay),
				usecase.WithNotifyOnSuccess(execCfg.NotifyOnSuccess),
			}
			if notifier := slackCfg.ConfigureOptional(logger); notifier != nil {
				opts = append(opts, usecase.WithNotifier(notifier))
			}

			workflow := usecase.NewWorkflow(driver, oracle)
			refresh := usecase.NewRefresh(sites.Sites, credentials, workflow, opts...)

			var runner controller.RefreshRunner = refresh
			if execCfg.TimeBudget > 0 {
				budget := execCfg.TimeBudget
				runner = controller.RunnerFunc(func(ctx context.Context) (*model.ExecutionSummary, error) {
					ctx, cancel := context.WithTimeout(ctx, budget)
					defer cancel()
					return refresh.Run(ctx)
				})
			}

			server := controller.NewServer(ctx, serverCfg.Addr, runner, repo)

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
