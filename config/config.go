package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/goccy/go-yaml"
)

// Input names, as declared in the action metadata.
const (
	InputGitHubToken       = "github-token"
	InputURL               = "url"
	InputAPIKey            = "api-key"
	InputSCM               = "scm"
	InputGitLabHost        = "gitlab-host"
	InputGitLabToken       = "gitlab-token"
	InputBitbucketEndpoint = "bitbucket-endpoint"
	InputBitbucketUser     = "bitbucket-user"
	InputBitbucketPassword = "bitbucket-password"
	InputRepoDir           = "repo-dir"
	InputTimeout           = "timeout"
)

// Source-control platforms accepted by the scm input.
const (
	SCMGitHub    = "github"
	SCMGitLab    = "gitlab"
	SCMBitbucket = "bitbucket"
	SCMLocal     = "local"
)

const defaultTimeout = "30s"

// Config holds the settings of one registration run.
type Config struct {
	// URL is the Dev Center base URL. No default.
	URL string
	// APIKey authenticates against the Dev Center.
	APIKey string
	// GitHubToken authenticates commit lookups on
	// GitHub.
	GitHubToken string

	// SCM selects where commit metadata is read
	// from. Defaults to "github".
	SCM string

	GitLabHost  string
	GitLabToken string

	BitbucketEndpoint string
	BitbucketUser     string
	BitbucketPassword string

	// RepoDir is the checkout read by the local
	// source. Empty means the working directory.
	RepoDir string

	// Timeout bounds each HTTP call.
	Timeout time.Duration
}

// file mirrors the YAML layout. Keys match the input
// names.
type file struct {
	URL               string `yaml:"url"`
	APIKey            string `yaml:"api-key"`
	GitHubToken       string `yaml:"github-token"`
	SCM               string `yaml:"scm"`
	GitLabHost        string `yaml:"gitlab-host"`
	GitLabToken       string `yaml:"gitlab-token"`
	BitbucketEndpoint string `yaml:"bitbucket-endpoint"`
	BitbucketUser     string `yaml:"bitbucket-user"`
	BitbucketPassword string `yaml:"bitbucket-password"`
	RepoDir           string `yaml:"repo-dir"`
	Timeout           string `yaml:"timeout"`
}

// Load reads the YAML file at path (skipped when path
// is empty), applies every non-empty value returned by
// input, fills defaults and validates the result.
func Load(
	path string,
	input func(name string) string,
) (Config, error) {
	const errCtx = "loading config"

	var f file

	if path != "" {
		raw, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
		if err != nil {
			return Config{}, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf(
				"%s: parse %s: %w", errCtx, path, err,
			)
		}
	}

	if input != nil {
		f.applyInputs(input)
	}

	cfg, err := f.resolve()
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return cfg, nil
}

func (f *file) applyInputs(input func(string) string) {
	for name, dst := range map[string]*string{
		InputURL:               &f.URL,
		InputAPIKey:            &f.APIKey,
		InputGitHubToken:       &f.GitHubToken,
		InputSCM:               &f.SCM,
		InputGitLabHost:        &f.GitLabHost,
		InputGitLabToken:       &f.GitLabToken,
		InputBitbucketEndpoint: &f.BitbucketEndpoint,
		InputBitbucketUser:     &f.BitbucketUser,
		InputBitbucketPassword: &f.BitbucketPassword,
		InputRepoDir:           &f.RepoDir,
		InputTimeout:           &f.Timeout,
	} {
		if v := input(name); v != "" {
			*dst = v
		}
	}
}

func (f *file) resolve() (Config, error) {
	if f.SCM == "" {
		f.SCM = SCMGitHub
	}

	if f.Timeout == "" {
		f.Timeout = defaultTimeout
	}

	timeout, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return Config{}, fmt.Errorf(
			"invalid timeout %q: %w", f.Timeout, err,
		)
	}

	cfg := Config{
		URL:               f.URL,
		APIKey:            f.APIKey,
		GitHubToken:       f.GitHubToken,
		SCM:               f.SCM,
		GitLabHost:        f.GitLabHost,
		GitLabToken:       f.GitLabToken,
		BitbucketEndpoint: f.BitbucketEndpoint,
		BitbucketUser:     f.BitbucketUser,
		BitbucketPassword: f.BitbucketPassword,
		RepoDir:           f.RepoDir,
		Timeout:           timeout,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the scm and timeout settings. An
// empty URL is accepted: requests then fail at call
// time.
func (c Config) Validate() error {
	known := []string{
		SCMGitHub, SCMGitLab, SCMBitbucket, SCMLocal,
	}

	if !slices.Contains(known, c.SCM) {
		return fmt.Errorf("unknown scm %q", c.SCM)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf(
			"timeout must be positive, got %s", c.Timeout,
		)
	}

	return nil
}
