package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdCheck() *cli.Command {
	var (
		sitesCfg   config.Sites
		secretsCfg config.Secrets
	)

	flags := joinFlags(
		sitesCfg.Flags(),
		secretsCfg.Flags(),
	)

	return &cli.Command{
		Name:  "check",
		Usage: "Validate site and credential configuration without touching a browser",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sites, err := sitesCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "site configuration is invalid")
			}

			credentials, err := secretsCfg.Configure()
			if err != nil {
				return err
			}

			creds, err := credentials.Get(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load credentials")
			}

			enabled := sites.Enabled()
			if err := creds.Validate(enabled); err != nil {
				return goerr.Wrap(err, "credential validation failed")
			}

			fmt.Fprintf(os.Stdout, "Sites: %d configured, %d enabled\n", len(sites.Sites), len(enabled))
			for _, site := range enabled {
				fmt.Fprintf(os.Stdout, "  - %s (%s): field %q, max retries %d\n",
					site.ID, site.Name, site.Field, site.MaxRetries)
			}
			fmt.Fprintf(os.Stdout, "Credentials: ok, notification address set\n")
			fmt.Fprintf(os.Stdout, "Configuration OK\n")
			return nil
		},
	}
}
