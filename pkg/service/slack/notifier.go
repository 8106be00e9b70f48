// Package slack delivers run summaries to a Slack channel or user.
package slack

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/slack-go/slack"
)

// MessagePoster is the slice of the Slack API the notifier needs. It is
// satisfied by *slack.Client.
type MessagePoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier posts execution summaries as Block Kit messages
type Notifier struct {
	poster MessagePoster
}

var _ interfaces.Notifier = (*Notifier)(nil)

// New creates a Notifier from a bot token
func New(token string) *Notifier {
	return &Notifier{
		poster: slack.New(token),
	}
}

// NewWithPoster creates a Notifier with a custom poster, used in tests
func NewWithPoster(poster MessagePoster) *Notifier {
	return &Notifier{
		poster: poster,
	}
}

// Send posts the summary to the given address (a channel or user ID)
func (n *Notifier) Send(ctx context.Context, address string, summary *model.ExecutionSummary) error {
	channel, timestamp, err := n.poster.PostMessageContext(ctx, address,
		slack.MsgOptionText(fallbackText(summary), false),
		slack.MsgOptionBlocks(BuildSummaryBlocks(summary)...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post summary to Slack",
			goerr.T(model.TagNotification),
			goerr.V("address", address),
			goerr.V("run_id", summary.RunID))
	}

	ctxlog.From(ctx).Info("Posted run summary to Slack",
		"channel", channel,
		"timestamp", timestamp,
		"success", summary.Success)

	return nil
}
