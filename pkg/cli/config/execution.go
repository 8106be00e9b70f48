package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Execution holds run pacing and notification policy configuration
type Execution struct {
	InterSiteDelay  time.Duration
	TimeBudget      time.Duration
	NotifyOnSuccess bool
}

// Flags returns CLI flags for Execution configuration
func (e *Execution) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "inter-site-delay",
			Usage:       "Pause after each site before the next one starts",
			Category:    "Execution",
			Value:       usecase.DefaultInterSiteDelay,
			Sources:     cli.EnvVars("PREEN_INTER_SITE_DELAY"),
			Destination: &e.InterSiteDelay,
		},
		&cli.DurationFlag{
			Name:        "time-budget",
			Usage:       "Deadline for the whole run (0 disables)",
			Category:    "Execution",
			Sources:     cli.EnvVars("PREEN_TIME_BUDGET"),
			Destination: &e.TimeBudget,
		},
		&cli.BoolFlag{
			Name:        "notify-on-success",
			Usage:       "Also notify when every site succeeded (failures always notify)",
			Category:    "Execution",
			Sources:     cli.EnvVars("PREEN_NOTIFY_ON_SUCCESS"),
			Destination: &e.NotifyOnSuccess,
		},
	}
}

// Validate validates the execution configuration
func (e *Execution) Validate() error {
	if e.InterSiteDelay < 0 {
		return goerr.New("inter-site delay must not be negative",
			goerr.V("delay", e.InterSiteDelay))
	}
	if e.TimeBudget < 0 {
		return goerr.New("time budget must not be negative",
			goerr.V("budget", e.TimeBudget))
	}
	return nil
}

// LogValue returns structured log value
func (e Execution) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("inter_site_delay", e.InterSiteDelay),
		slog.Duration("time_budget", e.TimeBudget),
		slog.Bool("notify_on_success", e.NotifyOnSuccess),
	)
}
