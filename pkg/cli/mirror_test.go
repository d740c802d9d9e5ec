package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/drover/pkg/cli"
	"github.com/m-mizutani/gt"
)

func TestMirrorCommand_TargetEqualsSource(t *testing.T) {
	// Neutralize ambient CI environment
	t.Setenv("GITHUB_EVENT_PATH", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("DROVER_GITHUB_TOKEN", "")

	// Completes without credentials: the guard must fire before any
	// GitHub client is built
	err := cli.Run(context.Background(), []string{"drover", "mirror",
		"--source", "octocat/hello",
		"--source-tag", "v1.0.0",
		"--target", "octocat/hello",
	})
	gt.NoError(t, err)
}

func TestMirrorCommand_NonPublishedEventIsNoOp(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("DROVER_GITHUB_TOKEN", "")

	eventFile := filepath.Join(t.TempDir(), "event.json")
	gt.NoError(t, os.WriteFile(eventFile, []byte(`{
		"action": "created",
		"release": {"tag_name": "v1.0.0"},
		"repository": {"name": "hello", "owner": {"login": "octocat"}}
	}`), 0600))

	err := cli.Run(context.Background(), []string{"drover", "mirror",
		"--event", eventFile,
		"--target", "acme/mirror",
	})
	gt.NoError(t, err)
}
