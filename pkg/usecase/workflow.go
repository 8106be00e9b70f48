package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
)

// Page wait budgets. Indicator and container waits cover post-login redirects
// and profile page loads; input waits cover login form rendering. Probes for
// already-rendered controls are immediate.
const (
	successIndicatorWait = 15 * time.Second
	profileContainerWait = 15 * time.Second
	editorDialogWait     = 10 * time.Second
	loginInputWait       = 10 * time.Second
	writeSettleWait      = 3 * time.Second
	editorCloseGrace     = 2 * time.Second
)

// Workflow performs one full update attempt against a single site: login,
// navigate to the profile, read the target field, rewrite it, write it back
// and confirm. Each Execute call opens a fresh browser session and closes it
// before returning, so no login state survives between attempts. The caller
// owns retry.
type Workflow struct {
	browser interfaces.Browser
	oracle  interfaces.MutationOracle
	sleep   SleepFunc
}

var _ WorkflowExecutor = (*Workflow)(nil)

// WorkflowOption configures optional Workflow behavior
type WorkflowOption func(*Workflow)

// WithWorkflowSleep replaces the wait used between page probes
func WithWorkflowSleep(sleep SleepFunc) WorkflowOption {
	return func(w *Workflow) {
		w.sleep = sleep
	}
}

// NewWorkflow creates a Workflow
func NewWorkflow(browser interfaces.Browser, oracle interfaces.MutationOracle, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		browser: browser,
		oracle:  oracle,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Execute runs a single update attempt. The returned details describe the
// applied update (content length, write confirmation). Every step failure
// leaves one diagnostic screenshot named <site>-<step>-error.
func (u *Workflow) Execute(ctx context.Context, site model.Site, cred model.SiteCredential) (map[string]any, error) {
	session, err := u.browser.NewSession(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open browser session",
			goerr.V("site", site.ID))
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			ctxlog.From(ctx).Warn("Failed to close browser session",
				"site", site.ID,
				"error", closeErr)
		}
	}()

	if err := u.login(ctx, session, site, cred); err != nil {
		return nil, u.failStep(ctx, session, site, types.StepLogin, err)
	}
	ctxlog.From(ctx).Info("Login successful", "site", site.ID)

	if err := u.openProfile(ctx, session, site); err != nil {
		return nil, u.failStep(ctx, session, site, types.StepNavigate, err)
	}

	field, original, err := u.readField(ctx, session, site)
	if err != nil {
		return nil, u.failStep(ctx, session, site, types.StepRead, err)
	}
	ctxlog.From(ctx).Info("Read current field content",
		"site", site.ID,
		"length", utf8.RuneCountInString(original))

	mutated, err := u.mutate(ctx, site, original)
	if err != nil {
		return nil, u.failStep(ctx, session, site, types.StepValidate, err)
	}

	if err := u.writeField(ctx, session, site, field, mutated); err != nil {
		return nil, u.failStep(ctx, session, site, types.StepWrite, err)
	}

	confirmed := u.verifyWrite(ctx, session, site)
	ctxlog.From(ctx).Info("Profile field updated",
		"site", site.ID,
		"confirmed", confirmed)

	return map[string]any{
		"content_length":  utf8.RuneCountInString(mutated),
		"write_confirmed": confirmed,
	}, nil
}

// login signs in and decides the outcome success-first: post-login indicators
// are checked before any error markup so a slow redirect is not mistaken for
// a rejection.
func (u *Workflow) login(ctx context.Context, session interfaces.BrowserSession, site model.Site, cred model.SiteCredential) error {
	if err := session.Navigate(ctx, site.LoginURL); err != nil {
		return goerr.Wrap(err, "failed to open login page")
	}

	username, _, err := ResolveFirst(ctx, session, site.Selectors.Username, loginInputWait)
	if err != nil {
		return goerr.Wrap(err, "username input not found")
	}
	if err := username.Type(ctx, cred.Username); err != nil {
		return goerr.Wrap(err, "failed to enter username")
	}

	password, _, err := ResolveFirst(ctx, session, site.Selectors.Password, loginInputWait)
	if err != nil {
		return goerr.Wrap(err, "password input not found")
	}
	if err := password.Type(ctx, cred.Password); err != nil {
		return goerr.Wrap(err, "failed to enter password")
	}

	submit, _, err := ResolveFirst(ctx, session, site.Selectors.LoginSubmit, loginInputWait)
	if err != nil {
		return goerr.Wrap(err, "login submit button not found")
	}
	if err := submit.Click(ctx); err != nil {
		return goerr.Wrap(err, "failed to submit login form")
	}

	if _, err := session.WaitVisible(ctx, joinSelectors(site.Selectors.LoginSuccess), successIndicatorWait); err == nil {
		return nil
	}

	return detectLoginError(ctx, session, site)
}

// detectLoginError distinguishes an explicit rejection from a blocked or
// unrecognized page. The first error indicator present decides: non-empty
// text is a rejection carrying that message, anything else is a verification
// wall (CAPTCHA, OTP, unknown UI).
func detectLoginError(ctx context.Context, session interfaces.BrowserSession, site model.Site) error {
	for _, selector := range site.Selectors.LoginError {
		el, err := session.Find(ctx, selector)
		if err != nil {
			continue
		}
		text, err := el.Text(ctx)
		if err != nil {
			continue
		}
		if msg := strings.TrimSpace(text); msg != "" {
			return goerr.New(fmt.Sprintf("login rejected: %s", msg),
				goerr.T(model.TagLoginFailed),
				goerr.V("site", site.ID),
				goerr.V("selector", selector))
		}
		break
	}

	return goerr.New("login verification required or blocked",
		goerr.T(model.TagVerificationRequired),
		goerr.V("site", site.ID))
}

func (u *Workflow) openProfile(ctx context.Context, session interfaces.BrowserSession, site model.Site) error {
	if err := session.Navigate(ctx, site.ProfileURL); err != nil {
		return goerr.Wrap(err, "failed to open profile page")
	}
	if _, err := session.WaitVisible(ctx, joinSelectors(site.Selectors.ProfileContainer), profileContainerWait); err != nil {
		return goerr.Wrap(err, "profile page did not load")
	}
	return nil
}

// readField opens the field editor and reads the current content. The
// trimmed content is what gets rewritten; a field with nothing but
// whitespace cannot be refreshed.
func (u *Workflow) readField(ctx context.Context, session interfaces.BrowserSession, site model.Site) (interfaces.Element, string, error) {
	opener, openerSel, err := resolveClickable(ctx, session, site.Selectors.EditOpeners)
	if err != nil {
		return nil, "", goerr.Wrap(err, "edit opener not found")
	}
	if err := opener.Click(ctx); err != nil {
		return nil, "", goerr.Wrap(err, "failed to open field editor",
			goerr.V("selector", openerSel))
	}

	if len(site.Selectors.EditorDialog) > 0 {
		if _, err := session.WaitVisible(ctx, joinSelectors(site.Selectors.EditorDialog), editorDialogWait); err != nil {
			return nil, "", goerr.Wrap(err, "field editor did not open")
		}
	}

	field, fieldSel, err := ResolveFirst(ctx, session, site.Selectors.FieldInputs, 0)
	if err != nil {
		return nil, "", goerr.Wrap(err, "target field input not found")
	}

	value, err := field.Value(ctx)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to read field value",
			goerr.V("selector", fieldSel))
	}

	content := strings.TrimSpace(value)
	if content == "" {
		return nil, "", goerr.New("target field is empty",
			goerr.T(model.TagFieldEmpty),
			goerr.V("site", site.ID),
			goerr.V("selector", fieldSel))
	}

	return field, content, nil
}

// mutate asks the oracle for a rewrite and validates it. An unreachable or
// failing oracle degrades to the local fallback, which needs no validation;
// an oracle rewrite that fails validation fails the attempt.
func (u *Workflow) mutate(ctx context.Context, site model.Site, original string) (string, error) {
	proposed, err := u.oracle.ProposeRewrite(ctx, original, site.OracleContext())
	if err != nil {
		ctxlog.From(ctx).Warn("Rewrite oracle failed, using local fallback",
			"site", site.ID,
			"error", err)
		return model.FallbackMutation(original), nil
	}

	if err := model.ValidateMutation(original, proposed); err != nil {
		return "", goerr.Wrap(err, "oracle rewrite rejected",
			goerr.V("site", site.ID))
	}

	return proposed, nil
}

func (u *Workflow) writeField(ctx context.Context, session interfaces.BrowserSession, site model.Site, field interfaces.Element, content string) error {
	if err := field.Fill(ctx, ""); err != nil {
		return goerr.Wrap(err, "failed to clear field")
	}
	if err := field.Fill(ctx, content); err != nil {
		return goerr.Wrap(err, "failed to write field")
	}

	save, saveSel, err := resolveClickable(ctx, session, site.Selectors.SaveButtons)
	if err != nil {
		return goerr.Wrap(err, "save button not found")
	}
	if err := save.Click(ctx); err != nil {
		return goerr.Wrap(err, "failed to click save",
			goerr.V("selector", saveSel))
	}

	return nil
}

// verifyWrite confirms the editor closed after save. Confirmation is best
// effort: a dialog that stays open is logged, never an error.
func (u *Workflow) verifyWrite(ctx context.Context, session interfaces.BrowserSession, site model.Site) bool {
	if len(site.Selectors.EditorDialog) == 0 {
		return true
	}

	if err := u.sleep(ctx, writeSettleWait); err != nil {
		return false
	}
	if editorClosed(ctx, session, site) {
		return true
	}

	ctxlog.From(ctx).Warn("Editor dialog still open after save, waiting",
		"site", site.ID)
	if err := u.sleep(ctx, editorCloseGrace); err != nil {
		return false
	}
	closed := editorClosed(ctx, session, site)
	if !closed {
		ctxlog.From(ctx).Warn("Could not confirm editor closed after save",
			"site", site.ID)
	}
	return closed
}

// editorClosed probes the dialog candidates; any present match means the
// editor is still open
func editorClosed(ctx context.Context, session interfaces.BrowserSession, site model.Site) bool {
	for _, selector := range site.Selectors.EditorDialog {
		if _, err := session.Find(ctx, selector); err == nil {
			return false
		}
	}
	return true
}

// failStep captures a diagnostic screenshot for the failed step and returns
// the error annotated with the step name. Screenshot failures are logged and
// swallowed.
func (u *Workflow) failStep(ctx context.Context, session interfaces.BrowserSession, site model.Site, step types.WorkflowStep, err error) error {
	name := fmt.Sprintf("%s-%s-error", site.ID, step)
	if shotErr := session.Screenshot(ctx, name); shotErr != nil {
		ctxlog.From(ctx).Warn("Failed to capture diagnostic screenshot",
			"site", site.ID,
			"step", step,
			"error", shotErr)
	}

	return goerr.Wrap(err, "workflow step failed",
		goerr.V("site", site.ID),
		goerr.V("step", step))
}

// joinSelectors builds a CSS union so one wait covers every candidate
func joinSelectors(selectors []string) string {
	return strings.Join(selectors, ", ")
}
