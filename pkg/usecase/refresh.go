package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
	"github.com/secmon-lab/preen/pkg/utils/apperr"
)

// DefaultInterSiteDelay separates consecutive site workflows so back-to-back
// automated traffic does not hit two sites in the same instant
const DefaultInterSiteDelay = 5 * time.Second

// Refresh drives one run across all enabled sites, strictly in configuration
// order with one browser session at a time. Repository and notifier are
// optional; everything else is required.
type Refresh struct {
	sites       []model.Site
	credentials interfaces.CredentialSource
	workflow    WorkflowExecutor

	repo            interfaces.Repository
	notifier        interfaces.Notifier
	interSiteDelay  time.Duration
	notifyOnSuccess bool
	sleep           SleepFunc
	now             func() time.Time
}

// RefreshOption is a functional option for configuring Refresh
type RefreshOption func(*Refresh)

// WithRepository enables best-effort run history persistence
func WithRepository(repo interfaces.Repository) RefreshOption {
	return func(r *Refresh) {
		r.repo = repo
	}
}

// WithNotifier enables run summary notifications
func WithNotifier(notifier interfaces.Notifier) RefreshOption {
	return func(r *Refresh) {
		r.notifier = notifier
	}
}

// WithInterSiteDelay overrides the pause applied after each site
func WithInterSiteDelay(d time.Duration) RefreshOption {
	return func(r *Refresh) {
		r.interSiteDelay = d
	}
}

// WithNotifyOnSuccess controls whether fully successful runs notify too.
// Failed runs always notify.
func WithNotifyOnSuccess(enabled bool) RefreshOption {
	return func(r *Refresh) {
		r.notifyOnSuccess = enabled
	}
}

// WithSleep replaces the wait implementation used for backoff and inter-site
// delays
func WithSleep(sleep SleepFunc) RefreshOption {
	return func(r *Refresh) {
		r.sleep = sleep
	}
}

// WithClock replaces the time source used for run timestamps
func WithClock(now func() time.Time) RefreshOption {
	return func(r *Refresh) {
		r.now = now
	}
}

// NewRefresh creates a Refresh over the given site roster. Disabled sites are
// skipped at run time.
func NewRefresh(sites []model.Site, credentials interfaces.CredentialSource, workflow WorkflowExecutor, opts ...RefreshOption) *Refresh {
	r := &Refresh{
		sites:          sites,
		credentials:    credentials,
		workflow:       workflow,
		interSiteDelay: DefaultInterSiteDelay,
		sleep:          sleepContext,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the refresh across every enabled site and returns a summary
// holding exactly one result per enabled site. A non-nil error means the run
// never started site work: credential resolution or validation failed. Once
// the site loop begins, per-site failures stay inside their results.
func (u *Refresh) Run(ctx context.Context) (*model.ExecutionSummary, error) {
	runID := types.NewRunID()
	ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("run_id", runID))
	logger := ctxlog.From(ctx)

	startedAt := u.now()

	creds, err := u.credentials.Get(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve credentials",
			goerr.T(model.TagConfig))
	}

	enabled := u.enabledSites()
	if err := creds.Validate(enabled); err != nil {
		return nil, goerr.Wrap(err, "credential validation failed")
	}

	logger.Info("Starting profile refresh run", "sites", len(enabled))

	results := make([]model.WorkflowResult, 0, len(enabled))
	for _, site := range enabled {
		cred, ok := creds.Site(site.ID)
		if !ok {
			// Unreachable after validation; profile updates already applied
			// to earlier sites stand.
			return nil, goerr.New("credentials disappeared for enabled site",
				goerr.T(model.TagConfig),
				goerr.V("site", site.ID))
		}

		results = append(results, u.runSite(ctx, site, cred))

		if err := u.sleep(ctx, u.interSiteDelay); err != nil {
			logger.Warn("Inter-site delay interrupted", "error", err)
		}
	}

	summary := model.NewExecutionSummary(runID, startedAt, u.now(), results)

	logger.Info("Profile refresh run finished",
		"success", summary.Success,
		"succeeded", summary.Succeeded(),
		"failed", summary.Failed(),
		"duration", summary.Duration())

	u.persist(ctx, summary)
	u.notify(ctx, creds.NotificationAddress, summary)

	return summary, nil
}

// runSite runs one site under the retry envelope. A panic escaping the
// workflow is recovered into that site's failure result so a crashing driver
// cannot take down the remaining sites.
func (u *Refresh) runSite(ctx context.Context, site model.Site, cred model.SiteCredential) (result model.WorkflowResult) {
	logger := ctxlog.From(ctx)
	started := u.now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Workflow panicked", "site", site.ID, "panic", r)
			result = model.NewWorkflowFailure(site, 0, u.now().Sub(started),
				goerr.New(fmt.Sprintf("workflow panic: %v", r)))
		}
	}()

	details, attempts, err := WithRetry(ctx, site.MaxRetries, site.ID.String(), u.sleep,
		func(ctx context.Context, attempt int) (map[string]any, error) {
			return u.workflow.Execute(ctx, site, cred)
		})
	if err != nil {
		logger.Error("Site refresh failed",
			"site", site.ID,
			"attempts", attempts,
			"error", err)
		return model.NewWorkflowFailure(site, attempts, u.now().Sub(started), err)
	}

	logger.Info("Site refresh succeeded",
		"site", site.ID,
		"attempts", attempts)
	return model.NewWorkflowSuccess(site, attempts, u.now().Sub(started), details)
}

func (u *Refresh) enabledSites() []model.Site {
	sites := make([]model.Site, 0, len(u.sites))
	for _, site := range u.sites {
		if site.Enabled {
			sites = append(sites, site)
		}
	}
	return sites
}

// persist stores the summary when a repository is configured. Persistence is
// best effort and never changes the run outcome.
func (u *Refresh) persist(ctx context.Context, summary *model.ExecutionSummary) {
	if u.repo == nil {
		return
	}
	if err := u.repo.PutRun(ctx, summary); err != nil {
		apperr.Handle(ctx, goerr.Wrap(err, "failed to persist run summary",
			goerr.V("run_id", summary.RunID)))
	}
}

// notify delivers the summary per the notification policy: failed runs
// always, successful runs only when enabled. Delivery problems are logged and
// never affect the run outcome.
func (u *Refresh) notify(ctx context.Context, address string, summary *model.ExecutionSummary) {
	if u.notifier == nil {
		return
	}
	if summary.Success && !u.notifyOnSuccess {
		return
	}
	if err := u.notifier.Send(ctx, address, summary); err != nil {
		apperr.Handle(ctx, goerr.Wrap(err, "failed to send run notification",
			goerr.T(model.TagNotification)))
	}
}
