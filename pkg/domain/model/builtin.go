package model

// DefaultLoginErrorSelectors are generic login failure markers shared by the
// built-in sites. Sites loaded from YAML without a login_error group inherit
// this list.
var DefaultLoginErrorSelectors = []string{
	`[role="alert"]`,
	`.error-message`,
	`.alert-danger`,
	`[data-test="error"]`,
}

// BuiltinSites returns the site profiles shipped with the binary. A sites
// file can override any of them by ID or add new ones.
func BuiltinSites() []Site {
	return []Site{
		{
			ID:         "linkedin",
			Name:       "LinkedIn",
			Enabled:    true,
			LoginURL:   "https://www.linkedin.com/login",
			ProfileURL: "https://www.linkedin.com/in/me/",
			Field:      "about",
			FieldLabel: "LinkedIn About/Summary",
			MaxRetries: 2,
			Selectors: Selectors{
				Username:    []string{`#username`},
				Password:    []string{`#password`},
				LoginSubmit: []string{`button[type="submit"]`},
				LoginSuccess: []string{
					`[data-test-id="feed-container"]`,
					`nav.global-nav`,
					`.feed-shared-update-v2`,
				},
				LoginError: DefaultLoginErrorSelectors,
				ProfileContainer: []string{
					`.pv-text-details__left-panel`,
					`.ph5`,
				},
				EditOpeners: []string{
					`button[aria-label="Edit intro"]`,
					`button[aria-label*="Edit intro"]`,
				},
				FieldInputs: []string{
					`div[role="dialog"] textarea`,
					`textarea[name="summary"]`,
					`#about-edit-form textarea`,
				},
				SaveButtons: []string{
					`button[aria-label="Save"]`,
					`div[role="dialog"] button[type="submit"]`,
				},
				EditorDialog: []string{`div[role="dialog"]`},
			},
		},
		{
			ID:         "naukri",
			Name:       "Naukri",
			Enabled:    true,
			LoginURL:   "https://www.naukri.com/nlogin/login",
			ProfileURL: "https://www.naukri.com/mnjuser/profile",
			Field:      "profile_summary",
			FieldLabel: "Naukri Profile Summary",
			MaxRetries: 2,
			Selectors: Selectors{
				Username:    []string{`#usernameField`},
				Password:    []string{`#passwordField`},
				LoginSubmit: []string{`button[type="submit"]`},
				LoginSuccess: []string{
					`.nI-gNb-drawer__icon`,
					`.view-profile-wrapper`,
				},
				LoginError: DefaultLoginErrorSelectors,
				ProfileContainer: []string{
					`.widgetList`,
					`.profileWrapper`,
				},
				EditOpeners: []string{
					`.resumeHeadline .edit`,
					`#profileSummary .edit`,
					`span[title="Edit Profile Summary"]`,
				},
				FieldInputs: []string{
					`textarea[name="summary"]`,
					`textarea#profileSummary`,
					`.summaryText textarea`,
					`textarea`,
				},
				SaveButtons: []string{
					`button.btn-dark-ot[type="submit"]`,
					`button.btn-dark-ot`,
					`button[type="submit"]`,
				},
			},
		},
		{
			ID:         "indeed",
			Name:       "Indeed",
			Enabled:    false,
			LoginURL:   "https://secure.indeed.com/account/login",
			ProfileURL: "https://profile.indeed.com/",
			Field:      "skills",
			FieldLabel: "Indeed Skills",
			MaxRetries: 2,
			Selectors: Selectors{
				Username: []string{
					`#ifl-InputFormField-3`,
					`input[type="email"]`,
					`#login-email-input`,
				},
				Password: []string{
					`#ifl-InputFormField-7`,
					`input[type="password"]`,
					`#login-password-input`,
				},
				LoginSubmit: []string{`button[type="submit"]`},
				LoginSuccess: []string{
					`[data-testid="profile-card"]`,
					`.profile-link`,
				},
				LoginError: DefaultLoginErrorSelectors,
				ProfileContainer: []string{
					`[data-testid="profile-card"]`,
					`.profile-section`,
				},
				EditOpeners: []string{
					`[data-testid="skills-edit-button"]`,
					`button[aria-label*="Edit skills"]`,
					`.skills-section .edit-button`,
				},
				FieldInputs: []string{
					`textarea[name="skills"]`,
					`textarea[aria-label*="Skills"]`,
					`input[name="skills"]`,
					`textarea`,
				},
				SaveButtons: []string{
					`button[type="submit"]`,
					`button[aria-label*="Save"]`,
					`.save-button`,
				},
			},
		},
	}
}
