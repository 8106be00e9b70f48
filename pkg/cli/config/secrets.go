package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/service/secrets"
	"github.com/urfave/cli/v3"
)

// Secrets holds credential source configuration
type Secrets struct {
	Path     string
	CacheTTL time.Duration
}

// Flags returns CLI flags for Secrets configuration
func (s *Secrets) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "secrets-file",
			Usage:       "Path to the JSON credentials file",
			Category:    "Secrets",
			Sources:     cli.EnvVars("PREEN_SECRETS_FILE"),
			Destination: &s.Path,
		},
		&cli.DurationFlag{
			Name:        "secrets-cache-ttl",
			Usage:       "How long parsed credentials are reused before re-reading the file",
			Category:    "Secrets",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("PREEN_SECRETS_CACHE_TTL"),
			Destination: &s.CacheTTL,
		},
	}
}

// Configure creates and returns a file-backed credential source
func (s *Secrets) Configure() (interfaces.CredentialSource, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return secrets.NewFileSource(s.Path, secrets.WithTTL(s.CacheTTL)), nil
}

// Validate validates the secrets configuration
func (s *Secrets) Validate() error {
	if s.Path == "" {
		return goerr.New("secrets file path is required")
	}
	if s.CacheTTL < 0 {
		return goerr.New("secrets cache TTL must not be negative",
			goerr.V("ttl", s.CacheTTL))
	}
	return nil
}

// LogValue returns structured log value
func (s Secrets) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", s.Path),
		slog.Duration("cache_ttl", s.CacheTTL),
	)
}
