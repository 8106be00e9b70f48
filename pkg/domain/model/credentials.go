package model

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/types"
)

// SiteCredential is one site's login pair
type SiteCredential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LogValue masks the secret fields in log output
func (c SiteCredential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", c.Username),
		slog.String("password", "(redacted)"),
	)
}

// Credentials is the secret payload: per-site logins plus the address that
// receives run summaries. The core never persists this value.
type Credentials struct {
	Sites               map[types.SiteID]SiteCredential `json:"sites"`
	NotificationAddress string                          `json:"notification_address"`
}

// Site returns the credential for the given site ID
func (c *Credentials) Site(id types.SiteID) (SiteCredential, bool) {
	cred, ok := c.Sites[id]
	return cred, ok
}

// Validate checks the payload covers every enabled site and can address run
// summaries. It runs before any browser session is opened so a broken secret
// fails the whole run up front.
func (c *Credentials) Validate(enabled []Site) error {
	if c.NotificationAddress == "" {
		return goerr.New("notification address is required", goerr.T(TagConfig))
	}

	for _, site := range enabled {
		cred, ok := c.Sites[site.ID]
		if !ok {
			return goerr.New("missing credentials for enabled site",
				goerr.T(TagConfig),
				goerr.V("site", site.ID))
		}
		if cred.Username == "" {
			return goerr.New("credential username is empty",
				goerr.T(TagConfig),
				goerr.V("site", site.ID))
		}
		if cred.Password == "" {
			return goerr.New("credential password is empty",
				goerr.T(TagConfig),
				goerr.V("site", site.ID))
		}
	}

	return nil
}
