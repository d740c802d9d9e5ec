// Package memory provides an in-memory MirrorRecordStore for one-shot
// runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// Store is an in-memory MirrorRecordStore
type Store struct {
	mu      sync.RWMutex
	records []*model.MirrorRecord
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{}
}

// PutRecord stores a mirror record
func (s *Store) PutRecord(_ context.Context, record *model.MirrorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.records = append(s.records, &copied)
	return nil
}

// GetByDeliveryID returns the record for a webhook delivery, or nil
// when the delivery has not been processed
func (s *Store) GetByDeliveryID(_ context.Context, deliveryID string) (*model.MirrorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.DeliveryID == deliveryID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

// Records returns a snapshot of all stored records
func (s *Store) Records() []*model.MirrorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.MirrorRecord, 0, len(s.records))
	for _, r := range s.records {
		copied := *r
		out = append(out, &copied)
	}
	return out
}
