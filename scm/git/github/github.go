package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/byte4ever/devcenter_register/scm/git"
)

// Config holds the settings needed to create a GitHub
// commit source.
type Config struct {
	// AccessToken is the workflow token, a personal
	// access token or a GitHub App token.
	AccessToken string
	// EnterpriseHost is an optional GitHub Enterprise
	// hostname (e.g. "git.corp.example.com"). Leave
	// empty for github.com.
	EnterpriseHost string
	// APIURL overrides the REST API base URL (e.g.
	// the GITHUB_API_URL of the runner). Takes
	// precedence over EnterpriseHost.
	APIURL string
	// Timeout bounds each API call. Zero means 30s.
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

// Source reads commits from GitHub.
//
// Pattern: Strategy -- implements git.CommitSource.
type Source struct {
	client *gh.Client
}

// NewSource validates cfg and returns a Source ready
// to fetch commits.
func NewSource(cfg Config) (*Source, error) {
	const errCtx = "creating github commit source"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := gh.NewClient(&http.Client{Timeout: timeout}).
		WithAuthToken(cfg.AccessToken)

	baseURL, uploadURL := "", ""

	switch {
	case cfg.APIURL != "":
		baseURL = cfg.APIURL
		uploadURL = cfg.APIURL
	case cfg.EnterpriseHost != "":
		baseURL = "https://" +
			cfg.EnterpriseHost + "/api/v3/"
		uploadURL = "https://" +
			cfg.EnterpriseHost + "/api/uploads/"
	}

	if baseURL != "" {
		var err error

		client, err = client.WithEnterpriseURLs(
			baseURL, uploadURL,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: enterprise urls: %w",
				errCtx, err,
			)
		}
	}

	return &Source{client: client}, nil
}

// GetCommit fetches the message and committer email of
// ref.Ref in ref.Owner/ref.Repo. The committer email is
// empty when GitHub does not report a committer.
func (s *Source) GetCommit(
	ctx context.Context,
	ref git.CommitRef,
) (git.CommitInfo, error) {
	rc, _, err := s.client.Repositories.GetCommit(
		ctx, ref.Owner, ref.Repo, ref.Ref, nil,
	)
	if err != nil {
		// The GitHub error message is surfaced as is.
		return git.CommitInfo{}, err
	}

	cm := rc.GetCommit()

	info := git.CommitInfo{
		Message:        cm.GetMessage(),
		CommitterEmail: cm.GetCommitter().GetEmail(),
	}

	slog.Info(
		"fetched github commit",
		"ref", ref.String(),
		"committer", info.CommitterEmail,
	)

	return info, nil
}
