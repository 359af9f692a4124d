package git

import (
	"context"
	"fmt"
)

// Pattern: Strategy -- swap git platform without
// changing registration logic.

// CommitRef identifies a commit on a hosting platform.
type CommitRef struct {
	// Owner is the user, organisation, group or
	// project key owning the repository.
	Owner string
	// Repo is the repository name (without owner).
	Repo string
	// Ref is the commit SHA (or any ref the host
	// resolves to a commit).
	Ref string
}

// Path returns "owner/repo".
func (r CommitRef) Path() string {
	return r.Owner + "/" + r.Repo
}

// String implements fmt.Stringer.
func (r CommitRef) String() string {
	return fmt.Sprintf("%s@%s", r.Path(), r.Ref)
}

// CommitInfo is the commit metadata needed for
// registration.
type CommitInfo struct {
	// Message is the full commit message.
	Message string
	// CommitterEmail is empty when the host does not
	// know the committer.
	CommitterEmail string
}

// CommitSource fetches commit metadata from a git
// hosting platform.
type CommitSource interface {
	GetCommit(
		ctx context.Context,
		ref CommitRef,
	) (CommitInfo, error)
}

// CommitSourceFunc adapts a plain function to the
// CommitSource interface.
type CommitSourceFunc func(
	ctx context.Context,
	ref CommitRef,
) (CommitInfo, error)

// GetCommit delegates to the wrapped function.
func (f CommitSourceFunc) GetCommit(
	ctx context.Context,
	ref CommitRef,
) (CommitInfo, error) {
	return f(ctx, ref)
}
