package model

import (
	"time"

	"github.com/secmon-lab/preen/pkg/domain/types"
)

// WorkflowResult records the outcome of one site within a run. Exactly one
// result exists per enabled site regardless of how the site finished;
// results are not modified after creation.
type WorkflowResult struct {
	Site     types.SiteID   `json:"site" firestore:"site"`
	SiteName string         `json:"site_name" firestore:"siteName"`
	Success  bool           `json:"success" firestore:"success"`
	Attempts int            `json:"attempts" firestore:"attempts"`
	Duration time.Duration  `json:"duration" firestore:"duration"`
	Error    string         `json:"error,omitempty" firestore:"error,omitempty"`
	Details  map[string]any `json:"details,omitempty" firestore:"details,omitempty"`
}

// NewWorkflowSuccess builds the result for a site that completed its update
func NewWorkflowSuccess(site Site, attempts int, duration time.Duration, details map[string]any) WorkflowResult {
	return WorkflowResult{
		Site:     site.ID,
		SiteName: site.Name,
		Success:  true,
		Attempts: attempts,
		Duration: duration,
		Details:  details,
	}
}

// NewWorkflowFailure builds the result for a site whose attempts were
// exhausted. The error message of the final attempt is preserved verbatim.
func NewWorkflowFailure(site Site, attempts int, duration time.Duration, err error) WorkflowResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return WorkflowResult{
		Site:     site.ID,
		SiteName: site.Name,
		Success:  false,
		Attempts: attempts,
		Duration: duration,
		Error:    msg,
	}
}

// ExecutionSummary aggregates one run across all enabled sites. It is the
// terminal artifact of a run, assembled once after the site loop finishes.
type ExecutionSummary struct {
	RunID     types.RunID      `json:"run_id" firestore:"runID"`
	StartedAt time.Time        `json:"started_at" firestore:"startedAt"`
	EndedAt   time.Time        `json:"ended_at" firestore:"endedAt"`
	Success   bool             `json:"success" firestore:"success"`
	Results   []WorkflowResult `json:"results" firestore:"results"`
}

// NewExecutionSummary assembles the summary for a finished run. Overall
// success is the conjunction of all per-site results; a run with zero sites
// is successful.
func NewExecutionSummary(runID types.RunID, startedAt, endedAt time.Time, results []WorkflowResult) *ExecutionSummary {
	summary := &ExecutionSummary{
		RunID:     runID,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Success:   true,
		Results:   make([]WorkflowResult, len(results)),
	}
	copy(summary.Results, results)

	for _, r := range results {
		if !r.Success {
			summary.Success = false
			break
		}
	}

	return summary
}

// Duration returns the wall time of the whole run
func (s *ExecutionSummary) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

// Succeeded counts the sites that completed their update
func (s *ExecutionSummary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed counts the sites that did not complete their update
func (s *ExecutionSummary) Failed() int {
	return len(s.Results) - s.Succeeded()
}
