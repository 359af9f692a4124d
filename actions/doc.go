// Package actions is the CI runtime glue of the registration client. It
// reads inputs and run context from the environment of a GitHub Actions
// job (with a GitLab CI fallback for the context) and reports back through
// workflow commands: notices, outputs written to GITHUB_OUTPUT, and a
// failure message that marks the run as failed.
package actions
