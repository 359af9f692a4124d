package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/devcenter_register/scm/git"
)

// Config holds the settings needed to create a GitLab
// commit source.
type Config struct {
	// Host is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	Host string
	// AccessToken is a personal, project or job
	// access token used for authentication.
	AccessToken string
	// Timeout bounds each API call. Zero means 30s.
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

// Source reads commits from GitLab. The project is
// addressed by its full path, CommitRef.Path().
//
// Pattern: Strategy -- implements git.CommitSource.
type Source struct {
	client *gl.Client
}

// NewSource validates cfg and returns a Source ready
// to fetch commits.
func NewSource(cfg Config) (*Source, error) {
	const errCtx = "creating gitlab commit source"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	host := cfg.Host
	if host == "" {
		host = "https://gitlab.com"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client, err := gl.NewClient(
		cfg.AccessToken,
		gl.WithBaseURL(host),
		gl.WithHTTPClient(&http.Client{Timeout: timeout}),
		gl.WithoutRetries(),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Source{client: client}, nil
}

// GetCommit fetches the message and committer email of
// ref.Ref in project ref.Owner/ref.Repo.
func (s *Source) GetCommit(
	ctx context.Context,
	ref git.CommitRef,
) (git.CommitInfo, error) {
	cm, _, err := s.client.Commits.GetCommit(
		ref.Path(), ref.Ref, nil, gl.WithContext(ctx),
	)
	if err != nil {
		return git.CommitInfo{}, err
	}

	info := git.CommitInfo{
		Message:        cm.Message,
		CommitterEmail: cm.CommitterEmail,
	}

	slog.Info(
		"fetched gitlab commit",
		"ref", ref.String(),
		"committer", info.CommitterEmail,
	)

	return info, nil
}
