package config

import (
	"log/slog"

	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	slacksvc "github.com/secmon-lab/preen/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack configuration for run summary notifications
type Slack struct {
	OAuthToken string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for posting run summaries",
			Category:    "Slack",
			Sources:     cli.EnvVars("PREEN_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
	}
}

// Configure creates and returns a Slack notifier
func (s *Slack) Configure() interfaces.Notifier {
	if !s.IsConfigured() {
		return nil
	}
	return slacksvc.New(s.OAuthToken)
}

// ConfigureOptional creates a Slack notifier if configured, returns nil if not
func (s *Slack) ConfigureOptional(logger *slog.Logger) interfaces.Notifier {
	if !s.IsConfigured() {
		logger.Warn("Slack not configured - run summaries will not be delivered")
		return nil
	}

	logger.Info("Configuring Slack notifier")
	return slacksvc.New(s.OAuthToken)
}

// IsConfigured checks if Slack is properly configured
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
	)
}
