package interfaces

import (
	"context"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook-driven release
// mirroring: policy resolution, deduplication and hand-off to the
// mirror operation.
type WebhookUseCase interface {
	// HandleRelease mirrors a published release according to policy.
	// payload is the raw webhook body, kept for archival.
	HandleRelease(ctx context.Context, req *model.MirrorRequest, payload []byte) error
}

// MirrorUseCase defines the mirror operation itself.
type MirrorUseCase interface {
	// Mirror creates a calendar-date-tagged release on target for the
	// given source release.
	Mirror(ctx context.Context, req *model.MirrorRequest, target model.RepoRef) (*model.MirrorResult, error)
}
