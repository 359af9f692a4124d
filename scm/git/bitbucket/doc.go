// Package bitbucket implements a git.CommitSource that reads commit
// metadata from the Bitbucket Server REST API using basic authentication.
package bitbucket
