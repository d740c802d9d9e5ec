package github

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type client struct {
	githubClient *github.Client
}

// Option configures the client
type Option func(*client) error

// WithBaseURL points the client at an alternate API endpoint. Used for
// GitHub Enterprise and for tests against a local fake.
func WithBaseURL(rawURL string) Option {
	return func(c *client) error {
		if !strings.HasSuffix(rawURL, "/") {
			rawURL += "/"
		}
		u, err := url.Parse(rawURL)
		if err != nil {
			return goerr.Wrap(err, "invalid base URL", goerr.V("url", rawURL))
		}
		c.githubClient.BaseURL = u
		return nil
	}
}

// NewClient creates a new GitHub client with App authentication
func NewClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	c := &client{
		githubClient: github.NewClient(&http.Client{Transport: itr}),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewClientFromKeyFile creates a new GitHub client with App
// authentication, reading the private key from a PEM file
func NewClientFromKeyFile(appID, installationID int64, keyPath string, opts ...Option) (interfaces.GitHubClient, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read private key file", goerr.V("path", keyPath))
	}
	return NewClient(appID, installationID, key, opts...)
}

// NewClientWithToken creates a new GitHub client authenticated with a
// personal access token or an Actions-scoped token
func NewClientWithToken(token string, opts ...Option) (interfaces.GitHubClient, error) {
	c := &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// CreateRelease creates a release on the repository
func (c *client) CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error) {
	created, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, repo, release)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag", release.GetTagName()),
		)
	}

	return created, nil
}

// GetReleaseByTag returns the release for a tag, or nil when the tag
// has no release
func (c *client) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, error) {
	release, resp, err := c.githubClient.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get release by tag",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag", tag),
		)
	}

	return release, nil
}
