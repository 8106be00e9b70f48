package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
)

func validSite() model.Site {
	return model.Site{
		ID:         "example",
		Name:       "Example",
		Enabled:    true,
		LoginURL:   "https://example.com/login",
		ProfileURL: "https://example.com/profile",
		Field:      "summary",
		MaxRetries: 2,
		Selectors: model.Selectors{
			Username:         []string{"#user"},
			Password:         []string{"#pass"},
			LoginSubmit:      []string{"button[type=submit]"},
			LoginSuccess:     []string{".home"},
			ProfileContainer: []string{".profile"},
			EditOpeners:      []string{".edit"},
			FieldInputs:      []string{"textarea"},
			SaveButtons:      []string{".save"},
		},
	}
}

func TestSiteValidate(t *testing.T) {
	t.Run("accepts complete site", func(t *testing.T) {
		site := validSite()
		gt.NoError(t, site.Validate())
	})

	t.Run("rejects empty ID", func(t *testing.T) {
		site := validSite()
		site.ID = ""
		err := site.Validate()
		gt.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		site := validSite()
		site.Name = ""
		err := site.Validate()
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.TagConfig)).True()
	})

	t.Run("rejects non-http login URL", func(t *testing.T) {
		site := validSite()
		site.LoginURL = "ftp://example.com/login"
		err := site.Validate()
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("http")
	})

	t.Run("rejects missing profile URL", func(t *testing.T) {
		site := validSite()
		site.ProfileURL = ""
		gt.Error(t, site.Validate())
	})

	t.Run("rejects negative max retries", func(t *testing.T) {
		site := validSite()
		site.MaxRetries = -1
		gt.Error(t, site.Validate())
	})

	t.Run("rejects empty selector group", func(t *testing.T) {
		site := validSite()
		site.Selectors.FieldInputs = nil
		err := site.Validate()
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("field_inputs")
	})

	t.Run("rejects empty selector candidate", func(t *testing.T) {
		site := validSite()
		site.Selectors.SaveButtons = []string{".save", ""}
		err := site.Validate()
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("save_buttons")
	})

	t.Run("allows empty optional selector groups", func(t *testing.T) {
		site := validSite()
		site.Selectors.LoginError = nil
		site.Selectors.EditorDialog = nil
		gt.NoError(t, site.Validate())
	})
}

func TestSiteOracleContext(t *testing.T) {
	site := validSite()

	t.Run("uses field label when set", func(t *testing.T) {
		site.FieldLabel = "Example Summary"
		gt.Equal(t, site.OracleContext(), "Example Summary")
	})

	t.Run("falls back to name and field", func(t *testing.T) {
		site.FieldLabel = ""
		gt.Equal(t, site.OracleContext(), "Example summary")
	})
}

func TestSitesConfig(t *testing.T) {
	t.Run("rejects empty roster", func(t *testing.T) {
		config := &model.SitesConfig{}
		gt.Error(t, config.Validate())
	})

	t.Run("rejects duplicate site IDs", func(t *testing.T) {
		config := &model.SitesConfig{Sites: []model.Site{validSite(), validSite()}}
		err := config.Validate()
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("duplicate site ID")
	})

	t.Run("enabled preserves configuration order", func(t *testing.T) {
		first := validSite()
		first.ID = "first"
		second := validSite()
		second.ID = "second"
		second.Enabled = false
		third := validSite()
		third.ID = "third"

		config := &model.SitesConfig{Sites: []model.Site{first, second, third}}
		gt.NoError(t, config.Validate())

		enabled := config.Enabled()
		gt.A(t, enabled).Length(2)
		gt.Equal(t, enabled[0].ID, types.SiteID("first"))
		gt.Equal(t, enabled[1].ID, types.SiteID("third"))
	})

	t.Run("find by ID returns a copy", func(t *testing.T) {
		config := &model.SitesConfig{Sites: []model.Site{validSite()}}

		found := config.FindByID("example")
		gt.V(t, found).NotNil()
		found.Name = "Mutated"

		gt.Equal(t, config.Sites[0].Name, "Example")
	})

	t.Run("find by unknown ID returns nil", func(t *testing.T) {
		config := &model.SitesConfig{Sites: []model.Site{validSite()}}
		gt.V(t, config.FindByID("missing")).Nil()
	})
}

func TestBuiltinSites(t *testing.T) {
	sites := model.BuiltinSites()
	config := &model.SitesConfig{Sites: sites}
	gt.NoError(t, config.Validate())

	gt.A(t, sites).Length(3)

	enabled := config.Enabled()
	gt.A(t, enabled).Length(2)
	gt.Equal(t, enabled[0].ID, types.SiteID("linkedin"))
	gt.Equal(t, enabled[1].ID, types.SiteID("naukri"))

	indeed := config.FindByID("indeed")
	gt.V(t, indeed).NotNil()
	gt.B(t, indeed.Enabled).False()

	for _, site := range sites {
		gt.Equal(t, site.MaxRetries, 2)
	}
}
