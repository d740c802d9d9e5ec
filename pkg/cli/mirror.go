package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drover/pkg/cli/config"
	githubctrl "github.com/m-mizutani/drover/pkg/controller/github"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMirror() *cli.Command {
	var (
		githubCfg config.GitHub
		mirrorCfg config.Mirror

		source    string
		sourceTag string
		eventPath string
		force     bool
	)

	flags := githubCfg.AuthFlags()
	flags = append(flags, mirrorCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Source repository (owner/name)",
			Destination: &source,
			Sources:     cli.EnvVars("DROVER_SOURCE"),
		},
		&cli.StringFlag{
			Name:        "source-tag",
			Usage:       "Tag name of the source release",
			Destination: &sourceTag,
			Sources:     cli.EnvVars("DROVER_SOURCE_TAG"),
		},
		&cli.StringFlag{
			Name:        "event",
			Usage:       "Path to a release event payload JSON (e.g. $GITHUB_EVENT_PATH)",
			Destination: &eventPath,
			Sources:     cli.EnvVars("GITHUB_EVENT_PATH"),
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Allocate a serial-suffixed tag when the date tag already exists",
			Destination: &force,
			Sources:     cli.EnvVars("DROVER_FORCE"),
		},
	)

	return &cli.Command{
		Name:    "mirror",
		Aliases: []string{"m"},
		Usage:   "Mirror one release (CI one-shot mode)",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			req, skip, err := buildMirrorRequest(source, sourceTag, eventPath)
			if err != nil {
				return err
			}
			if skip {
				logger.Info("Event is not a published release, nothing to do")
				return nil
			}

			policy, err := mirrorCfg.Policy()
			if err != nil {
				return err
			}
			target, err := policy.Resolve(req.Source)
			if err != nil {
				return err
			}

			// Same guard as the webhook path: a repository must never
			// mirror onto itself.
			if target == req.Source {
				logger.Warn("Mirror target equals source, nothing to do",
					slog.String("source", req.Source.String()),
				)
				return nil
			}

			loc, err := mirrorCfg.Location()
			if err != nil {
				return err
			}

			githubClient, err := githubCfg.NewClient()
			if err != nil {
				return err
			}

			mirrorUC := usecase.NewMirror(githubClient,
				usecase.WithLocation(loc),
				usecase.WithForce(force),
			)

			result, err := mirrorUC.Mirror(ctx, req, target)
			if err != nil {
				return err
			}

			logger.Info("Mirror completed",
				slog.String("source", req.Source.String()),
				slog.String("source_tag", req.SourceTag),
				slog.String("target", result.Target.String()),
				slog.String("tag", result.Tag),
				slog.Bool("skipped", result.Skipped),
				slog.String("release_url", result.ReleaseURL),
			)

			return nil
		},
	}
}

// buildMirrorRequest assembles the request from either an event
// payload file or the source flags. skip is true when the event file
// holds a non-published release action.
func buildMirrorRequest(source, sourceTag, eventPath string) (*model.MirrorRequest, bool, error) {
	if eventPath != "" {
		data, err := os.ReadFile(eventPath)
		if err != nil {
			return nil, false, goerr.Wrap(err, "failed to read event payload file", goerr.V("path", eventPath))
		}

		var event github.ReleaseEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, false, goerr.Wrap(err, "failed to parse event payload", goerr.V("path", eventPath))
		}

		if event.GetAction() != "published" {
			return nil, true, nil
		}

		req, err := githubctrl.MirrorRequestFromEvent(&event, "")
		if err != nil {
			return nil, false, err
		}
		return req, false, nil
	}

	if source == "" || sourceTag == "" {
		return nil, false, goerr.New("either --event or both --source and --source-tag are required")
	}

	repo, err := model.ParseRepo(source)
	if err != nil {
		return nil, false, err
	}

	return &model.MirrorRequest{
		Source:    repo,
		SourceTag: sourceTag,
	}, false, nil
}
