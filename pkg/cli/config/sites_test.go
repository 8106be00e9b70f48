package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/preen/pkg/cli/config"
	"github.com/secmon-lab/preen/pkg/domain/types"
)

func writeSitesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.yml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSitesConfigure(t *testing.T) {
	t.Run("returns builtins without a file", func(t *testing.T) {
		cfg := &config.Sites{}

		sites, err := cfg.Configure()
		gt.NoError(t, err)

		gt.A(t, sites.Sites).Length(3)
		linkedin := sites.FindByID(types.SiteID("linkedin"))
		gt.True(t, linkedin != nil)
		gt.B(t, linkedin.Enabled).True()
		gt.Equal(t, linkedin.LoginURL, "https://www.linkedin.com/login")

		naukri := sites.FindByID(types.SiteID("naukri"))
		gt.True(t, naukri != nil)
		gt.B(t, naukri.Enabled).True()

		indeed := sites.FindByID(types.SiteID("indeed"))
		gt.True(t, indeed != nil)
		gt.B(t, indeed.Enabled).False()
	})

	t.Run("sparse entry toggles enabled and keeps the rest", func(t *testing.T) {
		path := writeSitesFile(t, `
sites:
  - id: linkedin
    enabled: false
  - id: indeed
    enabled: true
`)
		cfg := &config.Sites{Path: path}

		sites, err := cfg.Configure()
		gt.NoError(t, err)

		linkedin := sites.FindByID(types.SiteID("linkedin"))
		gt.B(t, linkedin.Enabled).False()
		gt.Equal(t, linkedin.Name, "LinkedIn")
		gt.Equal(t, linkedin.LoginURL, "https://www.linkedin.com/login")
		gt.A(t, linkedin.Selectors.Username).Length(1)

		indeed := sites.FindByID(types.SiteID("indeed"))
		gt.B(t, indeed.Enabled).True()

		enabled := sites.Enabled()
		gt.A(t, enabled).Length(2)
	})

	t.Run("selector groups replace individually", func(t *testing.T) {
		path := writeSitesFile(t, `
sites:
  - id: naukri
    selectors:
      login_success:
        - ".new-dashboard"
      login_error: []
`)
		cfg := &config.Sites{Path: path}

		sites, err := cfg.Configure()
		gt.NoError(t, err)

		naukri := sites.FindByID(types.SiteID("naukri"))
		gt.Equal(t, naukri.Selectors.LoginSuccess, []string{".new-dashboard"})
		gt.A(t, naukri.Selectors.LoginError).Length(0)
		// Untouched groups keep the built-in candidates.
		gt.Equal(t, naukri.Selectors.Username, []string{"#usernameField"})
		gt.A(t, naukri.Selectors.SaveButtons).Longer(0)
	})

	t.Run("appends a complete new site", func(t *testing.T) {
		path := writeSitesFile(t, `
sites:
  - id: example
    name: Example
    enabled: true
    login_url: https://example.com/login
    profile_url: https://example.com/profile
    field: bio
    max_retries: 1
    selectors:
      username: ["#email"]
      password: ["#pass"]
      login_submit: ["button[type=submit]"]
      login_success: [".home"]
      profile_container: [".profile"]
      edit_openers: [".edit"]
      field_inputs: ["textarea"]
      save_buttons: [".save"]
`)
		cfg := &config.Sites{Path: path}

		sites, err := cfg.Configure()
		gt.NoError(t, err)

		gt.A(t, sites.Sites).Length(4)
		example := sites.FindByID(types.SiteID("example"))
		gt.True(t, example != nil)
		gt.Equal(t, example.Field, "bio")
		gt.Equal(t, example.MaxRetries, 1)
	})

	t.Run("rejects an incomplete new site", func(t *testing.T) {
		path := writeSitesFile(t, `
sites:
  - id: example
    enabled: true
`)
		cfg := &config.Sites{Path: path}

		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("rejects an entry without an ID", func(t *testing.T) {
		path := writeSitesFile(t, `
sites:
  - enabled: false
`)
		cfg := &config.Sites{Path: path}

		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		cfg := &config.Sites{Path: filepath.Join(t.TempDir(), "absent.yml")}

		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("fails on malformed YAML", func(t *testing.T) {
		path := writeSitesFile(t, "sites: [}{")
		cfg := &config.Sites{Path: path}

		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}
