package slack_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	slacksvc "github.com/secmon-lab/preen/pkg/service/slack"
	"github.com/slack-go/slack"
)

func TestBuildSummaryBlocks(t *testing.T) {
	t.Run("successful run", func(t *testing.T) {
		blocks := slacksvc.BuildSummaryBlocks(sampleSummary(true))

		// header, facts, divider, one section per site
		gt.A(t, blocks).Length(5)

		header, ok := blocks[0].(*slack.HeaderBlock)
		gt.B(t, ok).True()
		gt.Equal(t, header.Text.Text, "✅ Profile Refresh: Success")

		facts, ok := blocks[1].(*slack.SectionBlock)
		gt.B(t, ok).True()
		gt.A(t, facts.Fields).Length(4)
		gt.S(t, facts.Fields[0].Text).Contains("*Run ID:*\nrun-123")
		gt.S(t, facts.Fields[1].Text).Contains("*Duration:*\n3m0s")
		gt.S(t, facts.Fields[2].Text).Contains("2025-06-01 09:00:00 UTC")
		gt.S(t, facts.Fields[3].Text).Contains("2 updated, 0 failed")

		_, ok = blocks[2].(*slack.DividerBlock)
		gt.B(t, ok).True()

		first, ok := blocks[3].(*slack.SectionBlock)
		gt.B(t, ok).True()
		gt.Equal(t, first.Text.Text, "✅ *LinkedIn*: updated in 42s (attempts: 1)")

		second, ok := blocks[4].(*slack.SectionBlock)
		gt.B(t, ok).True()
		gt.Equal(t, second.Text.Text, "✅ *Naukri*: updated in 1m1s (attempts: 2)")
	})

	t.Run("run with a failed site", func(t *testing.T) {
		blocks := slacksvc.BuildSummaryBlocks(sampleSummary(false))

		header, ok := blocks[0].(*slack.HeaderBlock)
		gt.B(t, ok).True()
		gt.Equal(t, header.Text.Text, "⚠️ Profile Refresh: Partial Failure")

		facts, ok := blocks[1].(*slack.SectionBlock)
		gt.B(t, ok).True()
		gt.S(t, facts.Fields[3].Text).Contains("1 updated, 1 failed")

		failed, ok := blocks[4].(*slack.SectionBlock)
		gt.B(t, ok).True()
		gt.Equal(t, failed.Text.Text,
			"❌ *Naukri*: login rejected: bad password (attempts: 3)")
	})
}
