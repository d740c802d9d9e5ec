package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
	"github.com/m-mizutani/drover/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
)

type webhookUseCase struct {
	mirrorUC interfaces.MirrorUseCase
	policy   *model.Policy
	store    interfaces.MirrorRecordStore
	archiver interfaces.Archiver
}

// WebhookOption configures the webhook use case
type WebhookOption func(*webhookUseCase)

// WithPolicy sets the mirror routing policy
func WithPolicy(policy *model.Policy) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.policy = policy
	}
}

// WithDeliveryStore enables delivery-level deduplication
func WithDeliveryStore(store interfaces.MirrorRecordStore) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.store = store
	}
}

// WithArchiver enables raw payload archival
func WithArchiver(archiver interfaces.Archiver) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.archiver = archiver
	}
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(mirrorUC interfaces.MirrorUseCase, opts ...WebhookOption) interfaces.WebhookUseCase {
	uc := &webhookUseCase{
		mirrorUC: mirrorUC,
		policy:   &model.Policy{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// HandleRelease mirrors a published release according to policy
func (uc *webhookUseCase) HandleRelease(ctx context.Context, req *model.MirrorRequest, payload []byte) error {
	logger := ctxlog.From(ctx)

	if dup, err := uc.isDuplicate(ctx, req.DeliveryID); err != nil {
		// Deduplication is best effort; a store outage must not drop
		// the release.
		logger.Warn("failed to check delivery duplication",
			"error", err,
			"delivery_id", req.DeliveryID,
		)
	} else if dup {
		logger.Info("duplicate delivery, skipping",
			"delivery_id", req.DeliveryID,
			"source", req.Source.String(),
			"source_tag", req.SourceTag,
		)
		return nil
	}

	if uc.archiver != nil && len(payload) > 0 && req.DeliveryID != "" {
		deliveryID := req.DeliveryID
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.archiver.Archive(ctx, deliveryID, payload)
		})
	}

	target, err := uc.policy.Resolve(req.Source)
	if err != nil {
		if errors.Is(err, types.ErrNoTarget) {
			logger.Info("no mirror target for source, skipping",
				"source", req.Source.String(),
			)
			return nil
		}
		return goerr.Wrap(err, "failed to resolve mirror target",
			goerr.V("source", req.Source.String()),
		)
	}

	// A release on the target repository must never mirror onto
	// itself, or each mirror would trigger the next.
	if target == req.Source {
		logger.Warn("mirror target equals source, skipping",
			"source", req.Source.String(),
		)
		return nil
	}

	result, err := uc.mirrorUC.Mirror(ctx, req, target)
	if err != nil {
		return err
	}

	logger.Info("release handled",
		"source", req.Source.String(),
		"source_tag", req.SourceTag,
		"target", result.Target.String(),
		"tag", result.Tag,
		"skipped", result.Skipped,
	)

	return nil
}

func (uc *webhookUseCase) isDuplicate(ctx context.Context, deliveryID string) (bool, error) {
	if uc.store == nil || deliveryID == "" {
		return false, nil
	}

	record, err := uc.store.GetByDeliveryID(ctx, deliveryID)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}
