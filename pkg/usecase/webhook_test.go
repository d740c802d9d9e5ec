package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/infra/memory"
	"github.com/m-mizutani/drover/pkg/usecase"
)

// stubMirrorUC captures mirror invocations
type stubMirrorUC struct {
	calls []struct {
		req    *model.MirrorRequest
		target model.RepoRef
	}
	result *model.MirrorResult
	err    error
}

func (s *stubMirrorUC) Mirror(_ context.Context, req *model.MirrorRequest, target model.RepoRef) (*model.MirrorResult, error) {
	s.calls = append(s.calls, struct {
		req    *model.MirrorRequest
		target model.RepoRef
	}{req, target})

	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &model.MirrorResult{Target: target, Tag: "2026.3.9"}, nil
}

func TestWebhookUseCase_HandleRelease(t *testing.T) {
	req := &model.MirrorRequest{
		Source:     model.RepoRef{Owner: "octocat", Name: "hello"},
		SourceTag:  "v1.0.0",
		DeliveryID: "delivery-1",
	}

	t.Run("routes via policy rule", func(t *testing.T) {
		mirror := &stubMirrorUC{}
		uc := usecase.NewWebhook(mirror, usecase.WithPolicy(&model.Policy{
			DefaultTarget: "acme/mirror",
			Rules: []model.PolicyRule{
				{Source: "octocat/hello", Target: "octocat/hello-mirror"},
			},
		}))

		if err := uc.HandleRelease(context.Background(), req, nil); err != nil {
			t.Fatalf("HandleRelease() error = %v", err)
		}

		if len(mirror.calls) != 1 {
			t.Fatalf("Mirror called %d times, want 1", len(mirror.calls))
		}
		want := model.RepoRef{Owner: "octocat", Name: "hello-mirror"}
		if mirror.calls[0].target != want {
			t.Errorf("target = %v, want %v", mirror.calls[0].target, want)
		}
	})

	t.Run("falls back to default target", func(t *testing.T) {
		mirror := &stubMirrorUC{}
		uc := usecase.NewWebhook(mirror, usecase.WithPolicy(&model.Policy{
			DefaultTarget: "acme/mirror",
		}))

		if err := uc.HandleRelease(context.Background(), req, nil); err != nil {
			t.Fatalf("HandleRelease() error = %v", err)
		}

		want := model.RepoRef{Owner: "acme", Name: "mirror"}
		if len(mirror.calls) != 1 || mirror.calls[0].target != want {
			t.Errorf("Mirror calls = %v, want one call with %v", mirror.calls, want)
		}
	})

	t.Run("no target skips without error", func(t *testing.T) {
		mirror := &stubMirrorUC{}
		uc := usecase.NewWebhook(mirror)

		if err := uc.HandleRelease(context.Background(), req, nil); err != nil {
			t.Fatalf("HandleRelease() error = %v", err)
		}
		if len(mirror.calls) != 0 {
			t.Errorf("Mirror should not be called, got %d calls", len(mirror.calls))
		}
	})

	t.Run("target equals source skips", func(t *testing.T) {
		mirror := &stubMirrorUC{}
		uc := usecase.NewWebhook(mirror, usecase.WithPolicy(&model.Policy{
			DefaultTarget: "octocat/hello",
		}))

		if err := uc.HandleRelease(context.Background(), req, nil); err != nil {
			t.Fatalf("HandleRelease() error = %v", err)
		}
		if len(mirror.calls) != 0 {
			t.Errorf("Mirror should not be called, got %d calls", len(mirror.calls))
		}
	})

	t.Run("duplicate delivery skips", func(t *testing.T) {
		mirror := &stubMirrorUC{}
		store := memory.New()
		if err := store.PutRecord(context.Background(), &model.MirrorRecord{
			ID:         "rec-1",
			DeliveryID: "delivery-1",
			MirroredAt: time.Now(),
		}); err != nil {
			t.Fatalf("PutRecord() error = %v", err)
		}

		uc := usecase.NewWebhook(mirror,
			usecase.WithPolicy(&model.Policy{DefaultTarget: "acme/mirror"}),
			usecase.WithDeliveryStore(store),
		)

		if err := uc.HandleRelease(context.Background(), req, nil); err != nil {
			t.Fatalf("HandleRelease() error = %v", err)
		}
		if len(mirror.calls) != 0 {
			t.Errorf("Mirror should not be called for duplicate delivery, got %d calls", len(mirror.calls))
		}
	})

	t.Run("fresh delivery proceeds", func(t *testing.T) {
		mirror := &stubMirrorUC{}
		store := memory.New()

		uc := usecase.NewWebhook(mirror,
			usecase.WithPolicy(&model.Policy{DefaultTarget: "acme/mirror"}),
			usecase.WithDeliveryStore(store),
		)

		if err := uc.HandleRelease(context.Background(), req, nil); err != nil {
			t.Fatalf("HandleRelease() error = %v", err)
		}
		if len(mirror.calls) != 1 {
			t.Errorf("Mirror called %d times, want 1", len(mirror.calls))
		}
	})
}
