// Package github implements a git.CommitSource that reads commit metadata
// from GitHub (cloud or enterprise). Configure with a Config containing the
// access token. Set EnterpriseHost for GitHub Enterprise installations.
package github
