// Package gitlab implements a git.CommitSource that reads commit metadata
// from a GitLab instance through the REST API.
package gitlab
