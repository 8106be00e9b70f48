package slack

import (
	"fmt"
	"time"

	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/slack-go/slack"
)

// summaryHeader mirrors the subject line of the original summary mail
func summaryHeader(success bool) string {
	if success {
		return "✅ Profile Refresh: Success"
	}
	return "⚠️ Profile Refresh: Partial Failure"
}

// fallbackText is the plain text shown in notifications and clients that
// cannot render blocks.
func fallbackText(summary *model.ExecutionSummary) string {
	return fmt.Sprintf("Profile refresh finished: %d/%d sites updated",
		summary.Succeeded(), len(summary.Results))
}

// BuildSummaryBlocks renders an ExecutionSummary as Block Kit blocks: a
// header, the run facts, then one line per site.
func BuildSummaryBlocks(summary *model.ExecutionSummary) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(
				slack.PlainTextType,
				summaryHeader(summary.Success),
				false,
				false,
			),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(
				slack.MarkdownType,
				fmt.Sprintf("*Run ID:*\n%s", summary.RunID),
				false,
				false,
			),
			slack.NewTextBlockObject(
				slack.MarkdownType,
				fmt.Sprintf("*Duration:*\n%s", summary.Duration().Round(time.Second)),
				false,
				false,
			),
			slack.NewTextBlockObject(
				slack.MarkdownType,
				fmt.Sprintf("*Started:*\n%s", summary.StartedAt.Format("2006-01-02 15:04:05 MST")),
				false,
				false,
			),
			slack.NewTextBlockObject(
				slack.MarkdownType,
				fmt.Sprintf("*Sites:*\n%d updated, %d failed",
					summary.Succeeded(), summary.Failed()),
				false,
				false,
			),
		}, nil),
		slack.NewDividerBlock(),
	}

	for _, result := range summary.Results {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(
				slack.MarkdownType,
				resultLine(result),
				false,
				false,
			),
			nil,
			nil,
		))
	}

	return blocks
}

// resultLine renders one site outcome as a single markdown line
func resultLine(result model.WorkflowResult) string {
	if result.Success {
		return fmt.Sprintf("✅ *%s*: updated in %s (attempts: %d)",
			result.SiteName,
			result.Duration.Round(time.Second),
			result.Attempts)
	}
	return fmt.Sprintf("❌ *%s*: %s (attempts: %d)",
		result.SiteName,
		result.Error,
		result.Attempts)
}
