// Package commitmsg derives the Dev Center commit name and description
// from a git commit message. The name is the subject line, the text before
// the first newline; the description is the full message, unchanged.
package commitmsg
