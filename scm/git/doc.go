// Package git provides a strategy interface for reading commit metadata
// from a source-control host, and a local implementation backed by a git
// checkout.
//
// The CommitSource interface abstracts the lookup. Implementations exist
// for GitHub, GitLab, and Bitbucket Server in sub-packages. CommitSourceFunc
// is a convenience adapter that lets plain functions satisfy the interface.
//
// Repo reads the same metadata from a local clone with git show, for runs
// where no hosting API is reachable.
package git
