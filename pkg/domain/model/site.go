package model

import (
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/types"
)

// Selectors holds the CSS selector candidates for each page interaction.
// Candidates are tried strictly in order; the first match wins.
type Selectors struct {
	Username         []string `yaml:"username"`
	Password         []string `yaml:"password"`
	LoginSubmit      []string `yaml:"login_submit"`
	LoginSuccess     []string `yaml:"login_success"`
	LoginError       []string `yaml:"login_error"`
	ProfileContainer []string `yaml:"profile_container"`
	EditOpeners      []string `yaml:"edit_openers"`
	FieldInputs      []string `yaml:"field_inputs"`
	SaveButtons      []string `yaml:"save_buttons"`
	EditorDialog     []string `yaml:"editor_dialog"`
}

// Validate checks that every selector group the workflow depends on has at
// least one candidate. LoginError and EditorDialog may be empty: without them
// login failures surface as verification states and write confirmation is
// skipped.
func (s *Selectors) Validate() error {
	required := []struct {
		name       string
		candidates []string
	}{
		{"username", s.Username},
		{"password", s.Password},
		{"login_submit", s.LoginSubmit},
		{"login_success", s.LoginSuccess},
		{"profile_container", s.ProfileContainer},
		{"edit_openers", s.EditOpeners},
		{"field_inputs", s.FieldInputs},
		{"save_buttons", s.SaveButtons},
	}

	for _, group := range required {
		if len(group.candidates) == 0 {
			return goerr.New("selector group has no candidates",
				goerr.T(TagConfig),
				goerr.V("group", group.name))
		}
		for i, sel := range group.candidates {
			if sel == "" {
				return goerr.New("empty selector candidate",
					goerr.T(TagConfig),
					goerr.V("group", group.name),
					goerr.V("index", i))
			}
		}
	}

	return nil
}

// Site describes one target site: where to log in, where the profile lives,
// which field to refresh and how to find everything on the page. Sites are
// validated once at startup and treated as immutable afterwards.
type Site struct {
	ID         types.SiteID `yaml:"id"`
	Name       string       `yaml:"name"`
	Enabled    bool         `yaml:"enabled"`
	LoginURL   string       `yaml:"login_url"`
	ProfileURL string       `yaml:"profile_url"`
	Field      string       `yaml:"field"`
	FieldLabel string       `yaml:"field_label"`
	MaxRetries int          `yaml:"max_retries"`
	Selectors  Selectors    `yaml:"selectors"`
}

// Validate checks the site definition is complete enough to run
func (s *Site) Validate() error {
	if err := s.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid site ID", goerr.T(TagConfig))
	}
	if s.Name == "" {
		return goerr.New("site name is required",
			goerr.T(TagConfig), goerr.V("id", s.ID))
	}
	if err := validateSiteURL("login_url", s.LoginURL); err != nil {
		return goerr.Wrap(err, "invalid login URL", goerr.V("id", s.ID))
	}
	if err := validateSiteURL("profile_url", s.ProfileURL); err != nil {
		return goerr.Wrap(err, "invalid profile URL", goerr.V("id", s.ID))
	}
	if s.Field == "" {
		return goerr.New("target field is required",
			goerr.T(TagConfig), goerr.V("id", s.ID))
	}
	if s.MaxRetries < 0 {
		return goerr.New("max retries must not be negative",
			goerr.T(TagConfig),
			goerr.V("id", s.ID),
			goerr.V("maxRetries", s.MaxRetries))
	}
	if err := s.Selectors.Validate(); err != nil {
		return goerr.Wrap(err, "invalid selectors", goerr.V("id", s.ID))
	}
	return nil
}

// OracleContext returns the label passed to the rewrite oracle. FieldLabel
// wins when set so operators can steer the prompt per site.
func (s *Site) OracleContext() string {
	if s.FieldLabel != "" {
		return s.FieldLabel
	}
	return s.Name + " " + s.Field
}

func validateSiteURL(name, raw string) error {
	if raw == "" {
		return goerr.New("URL is required",
			goerr.T(TagConfig), goerr.V("field", name))
	}
	u, err := url.Parse(raw)
	if err != nil {
		return goerr.Wrap(err, "unparsable URL",
			goerr.T(TagConfig), goerr.V("field", name), goerr.V("url", raw))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return goerr.New("URL must be http or https",
			goerr.T(TagConfig), goerr.V("field", name), goerr.V("url", raw))
	}
	return nil
}

// SitesConfig represents the full site roster: built-in profiles possibly
// extended or replaced by a YAML file.
type SitesConfig struct {
	Sites []Site `yaml:"sites"`
}

// Validate validates every site and rejects duplicate IDs
func (c *SitesConfig) Validate() error {
	if len(c.Sites) == 0 {
		return goerr.New("at least one site is required", goerr.T(TagConfig))
	}

	idMap := make(map[types.SiteID]bool)
	for i, site := range c.Sites {
		if err := site.Validate(); err != nil {
			return goerr.Wrap(err, "invalid site at index",
				goerr.V("index", i),
				goerr.V("id", site.ID))
		}
		if idMap[site.ID] {
			return goerr.New("duplicate site ID",
				goerr.T(TagConfig),
				goerr.V("id", site.ID))
		}
		idMap[site.ID] = true
	}

	return nil
}

// Enabled returns the enabled sites in configuration order
func (c *SitesConfig) Enabled() []Site {
	result := make([]Site, 0, len(c.Sites))
	for _, site := range c.Sites {
		if site.Enabled {
			result = append(result, site)
		}
	}
	return result
}

// FindByID finds a site by its ID
func (c *SitesConfig) FindByID(id types.SiteID) *Site {
	for _, site := range c.Sites {
		if site.ID == id {
			// Return a copy to prevent modification
			result := site
			return &result
		}
	}
	return nil
}
