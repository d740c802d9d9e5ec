// Package firestore persists mirror records to Cloud Firestore.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const collectionMirrorRecords = "mirror_records"

// Store is a Firestore-backed MirrorRecordStore
type Store struct {
	client *firestore.Client
}

// New creates a Firestore store. databaseID may be empty for the
// default database.
func New(ctx context.Context, projectID, databaseID string) (*Store, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		)
	}

	return &Store{client: client}, nil
}

// PutRecord stores a mirror record
func (s *Store) PutRecord(ctx context.Context, record *model.MirrorRecord) error {
	doc := s.client.Collection(collectionMirrorRecords).Doc(record.ID)
	if _, err := doc.Set(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to put mirror record", goerr.V("id", record.ID))
	}
	return nil
}

// GetByDeliveryID returns the record for a webhook delivery, or nil
// when the delivery has not been processed
func (s *Store) GetByDeliveryID(ctx context.Context, deliveryID string) (*model.MirrorRecord, error) {
	iter := s.client.Collection(collectionMirrorRecords).
		Where("delivery_id", "==", deliveryID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query mirror record", goerr.V("delivery_id", deliveryID))
	}

	var record model.MirrorRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode mirror record", goerr.V("doc", doc.Ref.ID))
	}

	return &record, nil
}

// Close releases the underlying Firestore client
func (s *Store) Close() error {
	return s.client.Close()
}
