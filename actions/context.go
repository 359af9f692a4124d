package actions

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

// Context identifies the repository, ref and commit the
// job runs for.
type Context struct {
	// Owner is the repository owner (user, org or
	// GitLab namespace).
	Owner string
	// Repo is the repository name.
	Repo string
	// Ref is the fully qualified git ref, e.g.
	// "refs/heads/main".
	Ref string
	// SHA is the commit hash.
	SHA string
	// APIURL is the REST API root of the host, when
	// the runner exposes one.
	APIURL string
}

// Repository returns "owner/repo".
func (c Context) Repository() string {
	return c.Owner + "/" + c.Repo
}

// eventPayload is the subset of the webhook payload
// used when GITHUB_REPOSITORY is unset.
type eventPayload struct {
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// Context resolves the run context from GitHub Actions
// variables, falling back to the event payload for the
// repository and to GitLab CI variables when no GitHub
// variable is present.
func (r *Runner) Context() (Context, error) {
	const errCtx = "resolving run context"

	if r.Getenv("GITHUB_ACTIONS") == "" &&
		r.Getenv("GITLAB_CI") != "" {
		return r.gitlabContext(), nil
	}

	c := Context{
		Ref:    r.Getenv("GITHUB_REF"),
		SHA:    r.Getenv("GITHUB_SHA"),
		APIURL: r.Getenv("GITHUB_API_URL"),
	}

	if repo := r.Getenv("GITHUB_REPOSITORY"); repo != "" {
		c.Owner, c.Repo, _ = strings.Cut(repo, "/")

		return c, nil
	}

	path := r.Getenv("GITHUB_EVENT_PATH")
	if path == "" {
		return c, nil
	}

	raw, err := os.ReadFile(path) //nolint:gosec // path from runner
	if err != nil {
		return c, fmt.Errorf(
			"%s: read event payload: %w", errCtx, err,
		)
	}

	var ev eventPayload
	if err := json.Unmarshal(raw, &ev); err != nil {
		return c, fmt.Errorf(
			"%s: decode event payload: %w", errCtx, err,
		)
	}

	c.Owner = ev.Repository.Owner.Login
	c.Repo = ev.Repository.Name

	return c, nil
}

func (r *Runner) gitlabContext() Context {
	c := Context{
		SHA:    r.Getenv("CI_COMMIT_SHA"),
		APIURL: r.Getenv("CI_API_V4_URL"),
	}

	if path := r.Getenv("CI_PROJECT_PATH"); path != "" {
		i := strings.LastIndex(path, "/")
		c.Owner, c.Repo = path[:max(i, 0)], path[i+1:]
	}

	switch {
	case r.Getenv("CI_COMMIT_TAG") != "":
		c.Ref = "refs/tags/" + r.Getenv("CI_COMMIT_TAG")
	case r.Getenv("CI_COMMIT_REF_NAME") != "":
		c.Ref = "refs/heads/" + r.Getenv("CI_COMMIT_REF_NAME")
	}

	return c
}
