package github

import (
	"context"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// EventProcessor processes GitHub webhook events
type EventProcessor struct {
	webhookUC interfaces.WebhookUseCase
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(webhookUC interfaces.WebhookUseCase) *EventProcessor {
	return &EventProcessor{
		webhookUC: webhookUC,
	}
}

// ProcessEvent processes a GitHub webhook event. body is the raw
// payload as delivered, deliveryID the X-GitHub-Delivery header value.
func (p *EventProcessor) ProcessEvent(ctx context.Context, eventType, deliveryID string, payload interface{}, body []byte) error {
	logger := ctxlog.From(ctx)

	switch eventType {
	case "release":
		return p.processReleaseEvent(ctx, deliveryID, payload, body)
	default:
		logger.Info("Ignoring unsupported event type", "event_type", eventType)
		return nil
	}
}

// processReleaseEvent processes a GitHub release event
func (p *EventProcessor) processReleaseEvent(ctx context.Context, deliveryID string, payload interface{}, body []byte) error {
	logger := ctxlog.From(ctx)

	releaseEvent, ok := payload.(*github.ReleaseEvent)
	if !ok {
		logger.Warn("Invalid release event payload")
		return nil
	}

	// Only process "published" action
	if releaseEvent.GetAction() != "published" {
		logger.Info("Ignoring release event with non-published action",
			"action", releaseEvent.GetAction(),
		)
		return nil
	}

	req, err := MirrorRequestFromEvent(releaseEvent, deliveryID)
	if err != nil {
		logger.Error("Failed to extract mirror request", "error", err)
		return err
	}

	if err := p.webhookUC.HandleRelease(ctx, req, body); err != nil {
		logger.Error("Failed to handle release", "error", err,
			"source", req.Source.String(),
			"source_tag", req.SourceTag,
		)
		return err
	}

	return nil
}

// MirrorRequestFromEvent extracts a mirror request from a GitHub
// release event. Shared with the one-shot CLI, which reads the same
// payload from an event file.
func MirrorRequestFromEvent(event *github.ReleaseEvent, deliveryID string) (*model.MirrorRequest, error) {
	if event.GetRepo() == nil {
		return nil, goerr.New("missing repository information in release event")
	}
	if event.GetRelease() == nil {
		return nil, goerr.New("missing release information in release event")
	}

	owner := event.GetRepo().GetOwner().GetLogin()
	repo := event.GetRepo().GetName()
	tagName := event.GetRelease().GetTagName()

	if owner == "" || repo == "" || tagName == "" {
		return nil, goerr.New("missing required fields in release event",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag", tagName),
		)
	}

	return &model.MirrorRequest{
		Source:      model.RepoRef{Owner: owner, Name: repo},
		SourceTag:   tagName,
		ReleaseName: event.GetRelease().GetName(),
		DeliveryID:  deliveryID,
		PublishedAt: event.GetRelease().GetPublishedAt().Time,
	}, nil
}
