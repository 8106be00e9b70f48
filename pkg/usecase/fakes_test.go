package usecase_test

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
)

// fakeElement records interactions and serves scripted reads
type fakeElement struct {
	value  string
	text   string
	hidden bool

	clickErr error
	valueErr error
	textErr  error
	fillErr  error
	typeErr  error

	clicks int
	fills  []string
	typed  []string
}

func (e *fakeElement) Click(ctx context.Context) error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	return nil
}

func (e *fakeElement) Value(ctx context.Context) (string, error) {
	if e.valueErr != nil {
		return "", e.valueErr
	}
	return e.value, nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	if e.textErr != nil {
		return "", e.textErr
	}
	return e.text, nil
}

func (e *fakeElement) Fill(ctx context.Context, text string) error {
	if e.fillErr != nil {
		return e.fillErr
	}
	e.fills = append(e.fills, text)
	return nil
}

func (e *fakeElement) Type(ctx context.Context, text string) error {
	if e.typeErr != nil {
		return e.typeErr
	}
	e.typed = append(e.typed, text)
	return nil
}

func (e *fakeElement) Visible(ctx context.Context) (bool, error) {
	return !e.hidden, nil
}

// fakeSession resolves selectors from two maps: present serves immediate
// probes, visible serves bounded waits. Waits accept CSS unions by matching
// any comma-separated part.
type fakeSession struct {
	present map[string]*fakeElement
	visible map[string]*fakeElement

	navigateErr   error
	screenshotErr error
	closeErr      error

	navigated   []string
	found       []string
	waited      []string
	screenshots []string
	closed      int
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	return s.navigateErr
}

func (s *fakeSession) Find(ctx context.Context, selector string) (interfaces.Element, error) {
	s.found = append(s.found, selector)
	if el, ok := s.present[selector]; ok {
		return el, nil
	}
	return nil, goerr.New("element not present")
}

func (s *fakeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (interfaces.Element, error) {
	s.waited = append(s.waited, selector)
	for _, part := range strings.Split(selector, ", ") {
		if el, ok := s.visible[part]; ok {
			return el, nil
		}
	}
	return nil, goerr.New("element not visible")
}

func (s *fakeSession) Screenshot(ctx context.Context, name string) error {
	if s.screenshotErr != nil {
		return s.screenshotErr
	}
	s.screenshots = append(s.screenshots, name)
	return nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return s.closeErr
}

type fakeBrowser struct {
	session       *fakeSession
	newSessionErr error
	sessions      int
}

func (b *fakeBrowser) NewSession(ctx context.Context) (interfaces.BrowserSession, error) {
	if b.newSessionErr != nil {
		return nil, b.newSessionErr
	}
	b.sessions++
	return b.session, nil
}

// fakeOracle proposes a scripted rewrite; without a script it appends one
// character so validation passes for any non-trivial original
type fakeOracle struct {
	rewrite string
	err     error

	originals []string
	labels    []string
}

func (o *fakeOracle) ProposeRewrite(ctx context.Context, original, contextLabel string) (string, error) {
	o.originals = append(o.originals, original)
	o.labels = append(o.labels, contextLabel)
	if o.err != nil {
		return "", o.err
	}
	if o.rewrite != "" {
		return o.rewrite, nil
	}
	return original + "!", nil
}

type fakeCredentialSource struct {
	creds *model.Credentials
	err   error
	calls int
}

func (s *fakeCredentialSource) Get(ctx context.Context) (*model.Credentials, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.creds, nil
}

type fakeNotifier struct {
	err       error
	addresses []string
	summaries []*model.ExecutionSummary
}

func (n *fakeNotifier) Send(ctx context.Context, address string, summary *model.ExecutionSummary) error {
	n.addresses = append(n.addresses, address)
	n.summaries = append(n.summaries, summary)
	return n.err
}

// fakeWorkflow scripts per-site behavior for orchestrator tests. The script
// receives the attempt number so retry envelopes can be exercised.
type fakeWorkflow struct {
	fn       func(site model.Site, attempt int) (map[string]any, error)
	calls    []types.SiteID
	attempts map[types.SiteID]int
}

func (w *fakeWorkflow) Execute(ctx context.Context, site model.Site, cred model.SiteCredential) (map[string]any, error) {
	if w.attempts == nil {
		w.attempts = map[types.SiteID]int{}
	}
	w.attempts[site.ID]++
	w.calls = append(w.calls, site.ID)
	if w.fn != nil {
		return w.fn(site, w.attempts[site.ID])
	}
	return map[string]any{"content_length": 42}, nil
}

type failingRepository struct {
	putErr error
}

func (r *failingRepository) PutRun(ctx context.Context, summary *model.ExecutionSummary) error {
	return r.putErr
}

func (r *failingRepository) GetRun(ctx context.Context, id types.RunID) (*model.ExecutionSummary, error) {
	return nil, model.ErrRunNotFound
}

func (r *failingRepository) ListRuns(ctx context.Context, limit int) ([]*model.ExecutionSummary, error) {
	return nil, nil
}

func (r *failingRepository) Close() error {
	return nil
}

// sleepRecorder captures requested waits without waiting
type sleepRecorder struct {
	delays []time.Duration
	err    error
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return r.err
}

func testSelectors() model.Selectors {
	return model.Selectors{
		Username:         []string{"#username"},
		Password:         []string{"#password"},
		LoginSubmit:      []string{"button[type=submit]"},
		LoginSuccess:     []string{".nav-home", ".feed"},
		LoginError:       []string{"[role=alert]", ".error-message"},
		ProfileContainer: []string{".profile"},
		EditOpeners:      []string{"button.edit"},
		FieldInputs:      []string{"textarea.about"},
		SaveButtons:      []string{"button.save"},
		EditorDialog:     []string{"div[role=dialog]"},
	}
}

func testSite(id string) model.Site {
	return model.Site{
		ID:         types.SiteID(id),
		Name:       id,
		Enabled:    true,
		LoginURL:   "https://" + id + ".example.com/login",
		ProfileURL: "https://" + id + ".example.com/profile",
		Field:      "about",
		MaxRetries: 2,
		Selectors:  testSelectors(),
	}
}

func testCredentials(sites ...model.Site) *model.Credentials {
	creds := &model.Credentials{
		Sites:               map[types.SiteID]model.SiteCredential{},
		NotificationAddress: "#keepalive",
	}
	for _, site := range sites {
		creds.Sites[site.ID] = model.SiteCredential{
			Username: "user@example.com",
			Password: "hunter2",
		}
	}
	return creds
}

// happySession builds a session where every workflow step succeeds against
// testSelectors and the target field holds content
func happySession(content string) *fakeSession {
	return &fakeSession{
		present: map[string]*fakeElement{
			"button.edit":    {},
			"textarea.about": {value: content},
			"button.save":    {},
		},
		visible: map[string]*fakeElement{
			"#username":           {},
			"#password":           {},
			"button[type=submit]": {},
			".nav-home":           {},
			".profile":            {},
			"div[role=dialog]":    {},
		},
	}
}
