// Package slack posts mirror outcomes to a Slack incoming webhook.
package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Notifier posts mirror results via an incoming webhook URL
type Notifier struct {
	webhookURL string
}

// New creates a Notifier
func New(webhookURL string) *Notifier {
	return &Notifier{webhookURL: webhookURL}
}

// NotifyMirror posts the outcome of a mirror operation
func (n *Notifier) NotifyMirror(ctx context.Context, req *model.MirrorRequest, result *model.MirrorResult) error {
	var text string
	if result.Skipped {
		text = fmt.Sprintf(":fast_forward: mirror of `%s` %s skipped: `%s` already has tag `%s`",
			req.Source.String(), req.SourceTag, result.Target.String(), result.Tag)
	} else {
		text = fmt.Sprintf(":package: mirrored `%s` %s to `%s` as `%s`\n%s",
			req.Source.String(), req.SourceTag, result.Target.String(), result.Tag, result.ReleaseURL)
	}

	msg := &slack.WebhookMessage{Text: text}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification")
	}

	return nil
}
