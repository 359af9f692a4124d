package bitbucket

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/devcenter_register/scm/git"
)

const commitPath = "{endpoint}/projects/{project}" +
	"/repos/{repo}/commits/{commit}"

// Config holds the settings needed to create a
// Bitbucket commit source.
type Config struct {
	// APIEndpoint is the Bitbucket Server REST API
	// root (e.g.
	// "https://bb.example.com/rest/api/1.0").
	APIEndpoint string
	// User is the Bitbucket API username.
	User string
	// Password is the Bitbucket API password (or
	// personal access token).
	Password string
	// Timeout bounds each API call. Zero means 30s.
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

// Source reads commits from Bitbucket Server. The
// CommitRef owner is the project key and the repo is
// the repository slug.
//
// Pattern: Strategy -- implements git.CommitSource.
type Source struct {
	endpoint string
	user     string
	password string
	client   *http.Client
}

type person struct {
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
}

type commit struct {
	ID        string  `json:"id"`
	Message   string  `json:"message"`
	Author    *person `json:"author"`
	Committer *person `json:"committer"`
}

// NewSource validates cfg and returns a Source ready
// to fetch commits.
func NewSource(cfg Config) (*Source, error) {
	const errCtx = "creating bitbucket commit source"

	if cfg.APIEndpoint == "" {
		return nil, fmt.Errorf(
			"%s: api endpoint must be set",
			errCtx,
		)
	}

	if cfg.User == "" {
		return nil, fmt.Errorf(
			"%s: user must be set", errCtx,
		)
	}

	if cfg.Password == "" {
		return nil, fmt.Errorf(
			"%s: password must be set", errCtx,
		)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Source{
		endpoint: strings.TrimSuffix(cfg.APIEndpoint, "/"),
		user:     cfg.User,
		password: cfg.Password,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// GetCommit fetches the message and committer email of
// ref.Ref in repository ref.Repo of project ref.Owner.
func (s *Source) GetCommit(
	ctx context.Context,
	ref git.CommitRef,
) (git.CommitInfo, error) {
	const errCtx = "fetching bitbucket commit"

	target := fasttemplate.ExecuteString(
		commitPath, "{", "}",
		map[string]any{
			"endpoint": s.endpoint,
			"project":  url.PathEscape(ref.Owner),
			"repo":     url.PathEscape(ref.Repo),
			"commit":   url.PathEscape(ref.Ref),
		},
	)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, target, nil,
	)
	if err != nil {
		return git.CommitInfo{}, fmt.Errorf(
			"%s: build request: %w", errCtx, err,
		)
	}

	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(s.user, s.password)

	resp, err := s.client.Do(req)
	if err != nil {
		return git.CommitInfo{}, fmt.Errorf(
			"%s: send request: %w", errCtx, err,
		)
	}

	defer resp.Body.Close() //nolint:errcheck

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return git.CommitInfo{}, fmt.Errorf(
			"%s: read response: %w", errCtx, err,
		)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Warn(
			"bitbucket response",
			"status", resp.Status,
			"body", string(rb),
		)

		return git.CommitInfo{}, fmt.Errorf(
			"%s: unexpected status %d",
			errCtx, resp.StatusCode,
		)
	}

	var cm commit
	if err := json.Unmarshal(rb, &cm); err != nil {
		return git.CommitInfo{}, fmt.Errorf(
			"%s: decode response: %w", errCtx, err,
		)
	}

	info := git.CommitInfo{Message: cm.Message}
	if cm.Committer != nil {
		info.CommitterEmail = cm.Committer.EmailAddress
	}

	slog.Info(
		"fetched bitbucket commit",
		"ref", ref.String(),
		"committer", info.CommitterEmail,
	)

	return info, nil
}
