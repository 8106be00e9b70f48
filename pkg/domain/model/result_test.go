package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
)

func TestWorkflowResult(t *testing.T) {
	site := validSite()

	t.Run("success result carries details", func(t *testing.T) {
		result := model.NewWorkflowSuccess(site, 1, 1500*time.Millisecond, map[string]any{
			"content_length": 320,
		})
		gt.Equal(t, result.Site, site.ID)
		gt.Equal(t, result.SiteName, "Example")
		gt.B(t, result.Success).True()
		gt.Equal(t, result.Attempts, 1)
		gt.Equal(t, result.Duration, 1500*time.Millisecond)
		gt.Equal(t, result.Error, "")
	})

	t.Run("failure result preserves error message verbatim", func(t *testing.T) {
		cause := goerr.New("login failed: wrong password",
			goerr.T(model.TagLoginFailed))
		result := model.NewWorkflowFailure(site, 3, 12*time.Second, cause)
		gt.B(t, result.Success).False()
		gt.Equal(t, result.Attempts, 3)
		gt.Equal(t, result.Error, cause.Error())
	})

	t.Run("failure result tolerates nil error", func(t *testing.T) {
		result := model.NewWorkflowFailure(site, 1, time.Second, nil)
		gt.Equal(t, result.Error, "unknown error")
	})
}

func TestExecutionSummary(t *testing.T) {
	site := validSite()
	started := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	ended := started.Add(90 * time.Second)

	t.Run("all sites succeeded", func(t *testing.T) {
		results := []model.WorkflowResult{
			model.NewWorkflowSuccess(site, 1, time.Second, nil),
			model.NewWorkflowSuccess(site, 2, 2*time.Second, nil),
		}
		summary := model.NewExecutionSummary(types.NewRunID(), started, ended, results)
		gt.B(t, summary.Success).True()
		gt.Equal(t, summary.Succeeded(), 2)
		gt.Equal(t, summary.Failed(), 0)
		gt.Equal(t, summary.Duration(), 90*time.Second)
	})

	t.Run("one failure fails the run", func(t *testing.T) {
		results := []model.WorkflowResult{
			model.NewWorkflowSuccess(site, 1, time.Second, nil),
			model.NewWorkflowFailure(site, 3, 10*time.Second, goerr.New("boom")),
		}
		summary := model.NewExecutionSummary(types.NewRunID(), started, ended, results)
		gt.B(t, summary.Success).False()
		gt.Equal(t, summary.Succeeded(), 1)
		gt.Equal(t, summary.Failed(), 1)
	})

	t.Run("zero sites is a successful run", func(t *testing.T) {
		summary := model.NewExecutionSummary(types.NewRunID(), started, ended, nil)
		gt.B(t, summary.Success).True()
		gt.A(t, summary.Results).Length(0)
	})

	t.Run("results are copied on assembly", func(t *testing.T) {
		results := []model.WorkflowResult{
			model.NewWorkflowSuccess(site, 1, time.Second, nil),
		}
		summary := model.NewExecutionSummary(types.NewRunID(), started, ended, results)

		results[0].Success = false
		gt.B(t, summary.Results[0].Success).True()
	})
}
