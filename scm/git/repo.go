package git

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/byte4ever/devcenter_register/scm/exec"
)

// Repo is a local clone of a git repository used as a
// CommitSource. Owner and repo of the CommitRef are
// ignored; only Ref is resolved.
//
// Pattern: Strategy -- implements CommitSource.
type Repo struct {
	// Dir is the filesystem location of the clone.
	// Empty means the current working directory.
	Dir string
}

// GetCommit reads the message and committer email of
// ref with git show.
func (r *Repo) GetCommit(
	ctx context.Context,
	ref CommitRef,
) (CommitInfo, error) {
	const errCtx = "reading local commit"

	rev := ref.Ref
	if rev == "" {
		rev = "HEAD"
	}

	msg, err := exec.Ex(
		ctx, r.Dir, "git",
		"show", "-s", "--format=%B", rev,
	)
	if err != nil {
		return CommitInfo{}, fmt.Errorf(
			"%s: message of %s: %w", errCtx, rev, err,
		)
	}

	email, err := exec.Ex(
		ctx, r.Dir, "git",
		"show", "-s", "--format=%ce", rev,
	)
	if err != nil {
		return CommitInfo{}, fmt.Errorf(
			"%s: committer of %s: %w", errCtx, rev, err,
		)
	}

	info := CommitInfo{
		// git show appends a blank line after %B.
		Message:        strings.TrimRight(msg, "\n"),
		CommitterEmail: strings.TrimSpace(email),
	}

	slog.Info(
		"read local commit",
		"ref", rev,
		"committer", info.CommitterEmail,
	)

	return info, nil
}
