// Package storage archives raw webhook payloads to Cloud Storage.
package storage

import (
	"context"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// Archiver writes webhook payloads to a GCS bucket under
// <prefix>/<yyyy>/<mm>/<dd>/<delivery_id>.json
type Archiver struct {
	client *storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

// Option configures the archiver
type Option func(*Archiver)

// WithPrefix sets the object name prefix (default "webhooks")
func WithPrefix(prefix string) Option {
	return func(a *Archiver) {
		a.prefix = prefix
	}
}

// WithClock overrides the clock, for tests
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) {
		a.now = now
	}
}

// New creates an Archiver for a bucket
func New(ctx context.Context, bucket string, opts ...Option) (*Archiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	a := &Archiver{
		client: client,
		bucket: bucket,
		prefix: "webhooks",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Archive stores one payload. Object names embed the delivery date so
// bucket lifecycle rules can expire old payloads.
func (a *Archiver) Archive(ctx context.Context, deliveryID string, payload []byte) error {
	name := path.Join(a.prefix, a.now().UTC().Format("2006/01/02"), deliveryID+".json")

	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write payload object", goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize payload object", goerr.V("object", name))
	}

	return nil
}

// Close releases the underlying storage client
func (a *Archiver) Close() error {
	return a.client.Close()
}
