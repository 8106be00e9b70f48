package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Sites holds site roster configuration
type Sites struct {
	Path string
}

// Flags returns CLI flags for Sites configuration
func (s *Sites) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sites-file",
			Usage:       "YAML file overriding or extending the built-in site definitions",
			Category:    "Sites",
			Sources:     cli.EnvVars("PREEN_SITES_FILE"),
			Destination: &s.Path,
		},
	}
}

// Configure returns the validated site roster: the built-in definitions with
// the YAML file (when given) applied on top
func (s *Sites) Configure() (*model.SitesConfig, error) {
	sites := &model.SitesConfig{Sites: model.BuiltinSites()}

	if s.Path != "" {
		overrides, err := loadSiteOverrides(s.Path)
		if err != nil {
			return nil, err
		}
		if err := applySiteOverrides(sites, overrides); err != nil {
			return nil, goerr.Wrap(err, "invalid sites file",
				goerr.V("path", s.Path))
		}
	}

	if err := sites.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid site configuration",
			goerr.V("path", s.Path))
	}

	return sites, nil
}

// LogValue returns structured log value
func (s Sites) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", s.Path),
	)
}

// siteOverride is the YAML form of a site entry. Scalars are pointers so an
// omitted field keeps the built-in value while a present one replaces it;
// selector lists replace per group (nil means untouched, an explicit empty
// list clears the group).
type siteOverride struct {
	ID         types.SiteID     `yaml:"id"`
	Name       *string          `yaml:"name"`
	Enabled    *bool            `yaml:"enabled"`
	LoginURL   *string          `yaml:"login_url"`
	ProfileURL *string          `yaml:"profile_url"`
	Field      *string          `yaml:"field"`
	FieldLabel *string          `yaml:"field_label"`
	MaxRetries *int             `yaml:"max_retries"`
	Selectors  *selectorsDeltas `yaml:"selectors"`
}

type selectorsDeltas struct {
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

type sitesFile struct {
	Sites []siteOverride `yaml:"sites"`
}

// loadSiteOverrides loads site overrides from a YAML file
func loadSiteOverrides(path string) ([]siteOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "sites file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read sites file",
			goerr.V("path", path))
	}

	var file sitesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse sites YAML",
			goerr.V("path", path))
	}

	return file.Sites, nil
}

// applySiteOverrides merges file entries into the roster in file order.
// Entries matching a built-in ID modify it in place and keep its position;
// unknown IDs append new sites that must be complete enough to validate.
func applySiteOverrides(cfg *model.SitesConfig, overrides []siteOverride) error {
	for i, over := range overrides {
		if over.ID == "" {
			return goerr.New("site entry is missing an ID",
				goerr.T(model.TagConfig),
				goerr.V("index", i))
		}

		idx := siteIndex(cfg, over.ID)
		if idx < 0 {
			cfg.Sites = append(cfg.Sites, model.Site{ID: over.ID})
			idx = len(cfg.Sites) - 1
		}
		applyOverride(&cfg.Sites[idx], over)
	}
	return nil
}

func siteIndex(cfg *model.SitesConfig, id types.SiteID) int {
	for i := range cfg.Sites {
		if cfg.Sites[i].ID == id {
			return i
		}
	}
	return -1
}

func applyOverride(site *model.Site, over siteOverride) {
	if over.Name != nil {
		site.Name = *over.Name
	}
	if over.Enabled != nil {
		site.Enabled = *over.Enabled
	}
	if over.LoginURL != nil {
		site.LoginURL = *over.LoginURL
	}
	if over.ProfileURL != nil {
		site.ProfileURL = *over.ProfileURL
	}
	if over.Field != nil {
		site.Field = *over.Field
	}
	if over.FieldLabel != nil {
		site.FieldLabel = *over.FieldLabel
	}
	if over.MaxRetries != nil {
		site.MaxRetries = *over.MaxRetries
	}
	if over.Selectors != nil {
		applySelectorDeltas(&site.Selectors, *over.Selectors)
	}
}

func applySelectorDeltas(sel *model.Selectors, deltas selectorsDeltas) {
	if deltas.Username != nil {
		sel.Username = deltas.Username
	}
	if deltas.Password != nil {
		sel.Password = deltas.Password
	}
	if deltas.LoginSubmit != nil {
		sel.LoginSubmit = deltas.LoginSubmit
	}
	if deltas.LoginSuccess != nil {
		sel.LoginSuccess = deltas.LoginSuccess
	}
	if deltas.LoginError != nil {
		sel.LoginError = deltas.LoginError
	}
	if deltas.ProfileContainer != nil {
		sel.ProfileContainer = deltas.ProfileContainer
	}
	if deltas.EditOpeners != nil {
		sel.EditOpeners = deltas.EditOpeners
	}
	if deltas.FieldInputs != nil {
		sel.FieldInputs = deltas.FieldInputs
	}
	if deltas.SaveButtons != nil {
		sel.SaveButtons = deltas.SaveButtons
	}
	if deltas.EditorDialog != nil {
		sel.EditorDialog = deltas.EditorDialog
	}
}
