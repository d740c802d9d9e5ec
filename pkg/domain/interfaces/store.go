package interfaces

import (
	"context"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// MirrorRecordStore persists mirror records for delivery deduplication
// and history.
type MirrorRecordStore interface {
	// PutRecord stores a mirror record
	PutRecord(ctx context.Context, record *model.MirrorRecord) error

	// GetByDeliveryID returns the record for a webhook delivery, or
	// nil when the delivery has not been processed
	GetByDeliveryID(ctx context.Context, deliveryID string) (*model.MirrorRecord, error)
}

// Notifier reports mirror outcomes to an external channel.
type Notifier interface {
	NotifyMirror(ctx context.Context, req *model.MirrorRequest, result *model.MirrorResult) error
}

// Archiver stores raw webhook payloads for audit.
type Archiver interface {
	Archive(ctx context.Context, deliveryID string, payload []byte) error
}
