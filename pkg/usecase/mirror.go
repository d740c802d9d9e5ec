package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
	"github.com/m-mizutani/drover/pkg/utils/async"
	"github.com/m-mizutani/drover/pkg/utils/calver"
	"github.com/m-mizutani/goerr/v2"
)

// maxTagSerial bounds the serial suffix search for forced same-day
// mirrors.
const maxTagSerial = 100

type mirrorUseCase struct {
	githubClient interfaces.GitHubClient
	store        interfaces.MirrorRecordStore
	notifier     interfaces.Notifier
	now          func() time.Time
	location     *time.Location
	force        bool
}

// MirrorOption configures the mirror use case
type MirrorOption func(*mirrorUseCase)

// WithRecordStore enables mirror record persistence
func WithRecordStore(store interfaces.MirrorRecordStore) MirrorOption {
	return func(uc *mirrorUseCase) {
		uc.store = store
	}
}

// WithNotifier enables mirror outcome notification
func WithNotifier(notifier interfaces.Notifier) MirrorOption {
	return func(uc *mirrorUseCase) {
		uc.notifier = notifier
	}
}

// WithClock overrides the clock, for tests
func WithClock(now func() time.Time) MirrorOption {
	return func(uc *mirrorUseCase) {
		uc.now = now
	}
}

// WithLocation sets the time zone used to compute the date tag
// (default UTC)
func WithLocation(loc *time.Location) MirrorOption {
	return func(uc *mirrorUseCase) {
		uc.location = loc
	}
}

// WithForce allocates a serial-suffixed tag instead of skipping when
// the date tag already exists
func WithForce(force bool) MirrorOption {
	return func(uc *mirrorUseCase) {
		uc.force = force
	}
}

// NewMirror creates a new instance of MirrorUseCase
func NewMirror(githubClient interfaces.GitHubClient, opts ...MirrorOption) interfaces.MirrorUseCase {
	uc := &mirrorUseCase{
		githubClient: githubClient,
		now:          time.Now,
		location:     time.UTC,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Mirror creates a calendar-date-tagged release on target for the
// given source release. When the date tag already exists the mirror is
// treated as already done and skipped, unless force is set.
func (uc *mirrorUseCase) Mirror(ctx context.Context, req *model.MirrorRequest, target model.RepoRef) (*model.MirrorResult, error) {
	logger := ctxlog.From(ctx)

	baseTag := calver.Format(uc.now().In(uc.location))

	logger.Info("mirroring release",
		"source", req.Source.String(),
		"source_tag", req.SourceTag,
		"target", target.String(),
		"tag", baseTag,
	)

	tag, existing, err := uc.allocateTag(ctx, target, baseTag)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		logger.Info("mirror release already exists, skipping",
			"target", target.String(),
			"tag", tag,
			"release_url", existing.GetHTMLURL(),
		)
		result := &model.MirrorResult{
			Target:     target,
			Tag:        tag,
			ReleaseURL: existing.GetHTMLURL(),
			Skipped:    true,
		}
		uc.finish(ctx, req, result)
		return result, nil
	}

	body := fmt.Sprintf("Mirror of release %s from %s", req.SourceTag, req.Source.String())
	release := &github.RepositoryRelease{
		TagName:              github.Ptr(tag),
		Name:                 github.Ptr(tag),
		Body:                 github.Ptr(body),
		GenerateReleaseNotes: github.Ptr(true),
	}

	created, err := uc.githubClient.CreateRelease(ctx, target.Owner, target.Name, release)
	if err != nil {
		// Another instance may have created the tag between the
		// existence check and the create call.
		if isAlreadyExists(err) {
			logger.Info("mirror release created concurrently, skipping",
				"target", target.String(),
				"tag", tag,
			)
			result := &model.MirrorResult{Target: target, Tag: tag, Skipped: true}
			uc.finish(ctx, req, result)
			return result, nil
		}
		return nil, goerr.Wrap(err, "failed to create mirror release",
			goerr.V("target", target.String()),
			goerr.V("tag", tag),
		)
	}

	result := &model.MirrorResult{
		Target:     target,
		Tag:        tag,
		ReleaseURL: created.GetHTMLURL(),
	}

	logger.Info("mirror release created",
		"target", target.String(),
		"tag", tag,
		"release_url", result.ReleaseURL,
	)

	uc.finish(ctx, req, result)
	return result, nil
}

// allocateTag returns the tag to use and, when the mirror should be
// skipped, the already-existing release. With force, it scans serial
// suffixes until a free tag is found.
func (uc *mirrorUseCase) allocateTag(ctx context.Context, target model.RepoRef, baseTag string) (string, *github.RepositoryRelease, error) {
	existing, err := uc.githubClient.GetReleaseByTag(ctx, target.Owner, target.Name, baseTag)
	if err != nil {
		return "", nil, err
	}
	if existing == nil || !uc.force {
		return baseTag, existing, nil
	}

	for serial := 2; serial <= maxTagSerial; serial++ {
		tag := calver.WithSerial(baseTag, serial)
		existing, err := uc.githubClient.GetReleaseByTag(ctx, target.Owner, target.Name, tag)
		if err != nil {
			return "", nil, err
		}
		if existing == nil {
			return tag, nil, nil
		}
	}

	return "", nil, goerr.Wrap(types.ErrTagConflict, "serial suffix space exhausted",
		goerr.V("target", target.String()),
		goerr.V("base_tag", baseTag),
	)
}

// finish records the mirror and dispatches notification. Both are best
// effort and never fail the mirror itself.
func (uc *mirrorUseCase) finish(ctx context.Context, req *model.MirrorRequest, result *model.MirrorResult) {
	logger := ctxlog.From(ctx)

	if uc.store != nil {
		record := &model.MirrorRecord{
			ID:         uuid.NewString(),
			DeliveryID: req.DeliveryID,
			SourceRepo: req.Source.String(),
			SourceTag:  req.SourceTag,
			TargetRepo: result.Target.String(),
			Tag:        result.Tag,
			Skipped:    result.Skipped,
			MirroredAt: uc.now(),
		}
		if err := uc.store.PutRecord(ctx, record); err != nil {
			logger.Warn("failed to store mirror record",
				"error", err,
				"delivery_id", req.DeliveryID,
			)
		}
	}

	if uc.notifier != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyMirror(ctx, req, result)
		})
	}
}

// isAlreadyExists reports whether err is a GitHub validation error for
// a duplicate tag.
func isAlreadyExists(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	for _, e := range ghErr.Errors {
		if e.Code == "already_exists" {
			return true
		}
	}
	return false
}
