package model

import "time"

// MirrorRequest represents a release that should be mirrored to a
// target repository.
type MirrorRequest struct {
	Source      RepoRef   // Repository the release was published in
	SourceTag   string    // Tag name of the published release
	ReleaseName string    // Display name of the published release
	DeliveryID  string    // Webhook delivery ID, empty for one-shot runs
	PublishedAt time.Time // Publication time reported by GitHub
}

// MirrorResult represents the outcome of a mirror operation.
type MirrorResult struct {
	Target     RepoRef // Repository the mirror release was created in
	Tag        string  // Calendar-date tag of the mirror release
	ReleaseURL string  // HTML URL of the created release, empty when skipped
	Skipped    bool    // True when the mirror already existed
}

// MirrorRecord is the persisted trace of a mirror operation, used for
// delivery deduplication and history.
type MirrorRecord struct {
	ID         string    `firestore:"id"`
	DeliveryID string    `firestore:"delivery_id"`
	SourceRepo string    `firestore:"source_repo"`
	SourceTag  string    `firestore:"source_tag"`
	TargetRepo string    `firestore:"target_repo"`
	Tag        string    `firestore:"tag"`
	Skipped    bool      `firestore:"skipped"`
	MirroredAt time.Time `firestore:"mirrored_at"`
}
