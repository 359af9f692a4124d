// Command devcenter_register registers the branch and
// commit of a CI run with the Dev Center. It reads its
// inputs from the CI environment, optionally layered
// over a YAML config file, and reports through
// workflow commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/byte4ever/devcenter_register/actions"
	"github.com/byte4ever/devcenter_register/config"
	"github.com/byte4ever/devcenter_register/devcenter"
	"github.com/byte4ever/devcenter_register/registrar"
	"github.com/byte4ever/devcenter_register/scm/git"
	"github.com/byte4ever/devcenter_register/scm/git/bitbucket"
	"github.com/byte4ever/devcenter_register/scm/git/github"
	"github.com/byte4ever/devcenter_register/scm/git/gitlab"
)

func main() {
	runner := actions.NewRunner()

	setupLogging(runner)

	if err := run(runner); err != nil {
		slog.Error("fatal", "error", err)
		runner.SetFailed(err.Error())
	}

	os.Exit(runner.ExitCode())
}

func setupLogging(runner *actions.Runner) {
	level := slog.LevelInfo
	if runner.Getenv("RUNNER_DEBUG") == "1" {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		os.Stderr, &slog.HandlerOptions{Level: level},
	)))
}

func run(runner *actions.Runner) error {
	const errCtx = "running devcenter_register"

	configPath := flag.String(
		"config", runner.Input("config"),
		"YAML config file layered under CI inputs",
	)
	url := flag.String(
		"url", "",
		"Dev Center base URL (overrides the url input)",
	)
	scm := flag.String(
		"scm", "",
		"Commit metadata source: github, gitlab, "+
			"bitbucket or local",
	)
	repoDir := flag.String(
		"repo_dir", "",
		"Local checkout read by the local source",
	)
	timeout := flag.Duration(
		"timeout", 0,
		"Per-call HTTP timeout",
	)

	flag.Parse()

	cfg, err := config.Load(*configPath, runner.Input)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	applyFlags(&cfg, *url, *scm, *repoDir, *timeout)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	runCtx, err := runner.Context()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"registering",
		"repository", runCtx.Repository(),
		"ref", runCtx.Ref,
		"sha", runCtx.SHA,
		"scm", cfg.SCM,
	)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	state := registrar.Run(ctx, registrar.Config{
		Client: devcenter.NewClient(devcenter.Config{
			BaseURL: cfg.URL,
			Timeout: cfg.Timeout,
		}),
		APIKey: cfg.APIKey,
		Owner:  runCtx.Owner,
		Repo:   runCtx.Repo,
		Ref:    runCtx.Ref,
		SHA:    runCtx.SHA,
		Source: newCommitSource(cfg, runCtx),
		Sink:   runner,
	})

	if runner.Failed() {
		slog.Error(
			"registration failed",
			"state", state.String(),
			"message", runner.FailureMessage(),
		)

		return nil
	}

	slog.Info("registration finished", "state", state.String())

	return nil
}

// applyFlags overrides cfg with the flags that were
// set.
func applyFlags(
	cfg *config.Config,
	url string,
	scm string,
	repoDir string,
	timeout time.Duration,
) {
	if url != "" {
		cfg.URL = url
	}

	if scm != "" {
		cfg.SCM = scm
	}

	if repoDir != "" {
		cfg.RepoDir = repoDir
	}

	if timeout > 0 {
		cfg.Timeout = timeout
	}
}

// newCommitSource creates a git.CommitSource based on
// cfg.SCM. Pattern: Factory -- selects platform
// implementation at runtime.
//
// Construction errors are deferred to the first
// lookup so that they surface at the commit step of
// the run, after authentication and branch
// registration.
func newCommitSource(
	cfg config.Config,
	runCtx actions.Context,
) git.CommitSource {
	const errCtx = "creating commit source"

	var (
		src git.CommitSource
		err error
	)

	switch cfg.SCM {
	case config.SCMGitLab:
		host := cfg.GitLabHost
		if host == "" {
			host = runCtx.APIURL
		}

		src, err = gitlab.NewSource(gitlab.Config{
			Host:        host,
			AccessToken: cfg.GitLabToken,
			Timeout:     cfg.Timeout,
		})

	case config.SCMBitbucket:
		src, err = bitbucket.NewSource(bitbucket.Config{
			APIEndpoint: cfg.BitbucketEndpoint,
			User:        cfg.BitbucketUser,
			Password:    cfg.BitbucketPassword,
			Timeout:     cfg.Timeout,
		})

	case config.SCMLocal:
		src = &git.Repo{Dir: cfg.RepoDir}

	default:
		src, err = github.NewSource(github.Config{
			AccessToken: cfg.GitHubToken,
			APIURL:      runCtx.APIURL,
			Timeout:     cfg.Timeout,
		})
	}

	if err != nil {
		err = fmt.Errorf("%s: %w", errCtx, err)

		return git.CommitSourceFunc(func(
			context.Context,
			git.CommitRef,
		) (git.CommitInfo, error) {
			return git.CommitInfo{}, err
		})
	}

	return src
}
