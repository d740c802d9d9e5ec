package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestParsePolicy(t *testing.T) {
	t.Run("full policy", func(t *testing.T) {
		data := []byte(`
default_target = "acme/mirror"

[[rule]]
source = "octocat/hello"
target = "octocat/hello-mirror"

[[rule]]
source = "acme/api"
target = "acme/api-mirror"
`)
		policy, err := model.ParsePolicy(data)
		gt.NoError(t, err)
		gt.Value(t, policy.DefaultTarget).Equal("acme/mirror")
		gt.Array(t, policy.Rules).Length(2)
	})

	t.Run("invalid TOML", func(t *testing.T) {
		_, err := model.ParsePolicy([]byte(`default_target = `))
		gt.Error(t, err)
	})

	t.Run("invalid repository notation", func(t *testing.T) {
		_, err := model.ParsePolicy([]byte(`default_target = "not-a-repo"`))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidRepo))
	})
}

func TestPolicy_Resolve(t *testing.T) {
	policy := &model.Policy{
		DefaultTarget: "acme/mirror",
		Rules: []model.PolicyRule{
			{Source: "octocat/hello", Target: "octocat/hello-mirror"},
		},
	}

	t.Run("rule match", func(t *testing.T) {
		target, err := policy.Resolve(model.RepoRef{Owner: "octocat", Name: "hello"})
		gt.NoError(t, err)
		gt.Value(t, target).Equal(model.RepoRef{Owner: "octocat", Name: "hello-mirror"})
	})

	t.Run("default target fallback", func(t *testing.T) {
		target, err := policy.Resolve(model.RepoRef{Owner: "acme", Name: "other"})
		gt.NoError(t, err)
		gt.Value(t, target).Equal(model.RepoRef{Owner: "acme", Name: "mirror"})
	})

	t.Run("no target", func(t *testing.T) {
		empty := &model.Policy{}
		_, err := empty.Resolve(model.RepoRef{Owner: "octocat", Name: "hello"})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrNoTarget))
	})
}
