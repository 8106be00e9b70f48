package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/cli/config"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/service/llm"
	"github.com/secmon-lab/preen/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		sitesCfg     config.Sites
		secretsCfg   config.Secrets
		browserCfg   config.Browser
		geminiCfg    config.Gemini
		slackCfg     config.Slack
		firestoreCfg config.Firestore
		execCfg      config.Execution
		format       string
	)

	flags := joinFlags(
		sitesCfg.Flags(),
		secretsCfg.Flags(),
		browserCfg.Flags(),
		geminiCfg.Flags(),
		slackCfg.Flags(),
		firestoreCfg.Flags(),
		execCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Summary output format (table, json)",
				Value:       "table",
				Sources:     cli.EnvVars("PREEN_FORMAT"),
				Destination: &format,
			},
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Refresh every enabled site once and print the summary",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if format != "table" && format != "json" {
				return goerr.New("invalid output format", goerr.V("format", format))
			}
			if err := execCfg.Validate(); err != nil {
				return err
			}

			logger.Info("Starting profile refresh",
				slog.Any("sites", sitesCfg),
				slog.Any("secrets", secretsCfg),
				slog.Any("browser", browserCfg),
				slog.Any("gemini", geminiCfg),
				slog.Any("slack", slackCfg),
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

			opts := []usecase.RefreshOption{
				usecase.WithInterSiteDelay(execCfg.InterSiteDelay),
				usecase.WithNotifyOnSuccess(execCfg.NotifyOnSuccess),
			}

			if notifier := slackCfg.ConfigureOptional(logger); notifier != nil {
				opts = append(opts, usecase.WithNotifier(notifier))
			}

			// Run history only goes to a real store. The memory fallback is
			// useless for a process that exits right after the run.
			if firestoreCfg.IsConfigured() {
				repo, err := firestoreCfg.Configure(ctx)
				if err != nil {
					return err
				}
				defer repo.Close()
				opts = append(opts, usecase.WithRepository(repo))
			}

			workflow := usecase.NewWorkflow(driver, oracle)
			refresh := usecase.NewRefresh(sites.Sites, credentials, workflow, opts...)

			if execCfg.TimeBudget > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, execCfg.TimeBudget)
				defer cancel()
			}

			summary, err := refresh.Run(ctx)
			if err != nil {
				return goerr.Wrap(err, "refresh run failed to start")
			}

			// Per-site failures are part of a completed run: the summary
			// carries them and the exit code stays zero.
			return printSummary(os.Stdout, format, summary)
		},
	}
}
