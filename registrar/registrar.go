package registrar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/byte4ever/devcenter_register/devcenter"
	"github.com/byte4ever/devcenter_register/scm/commitmsg"
	"github.com/byte4ever/devcenter_register/scm/git"
)

// TimeLayout formats the "time" output as a time of
// day with zone, e.g. "14:03:59 GMT+0000 (UTC)".
const TimeLayout = "15:04:05 GMT-0700 (MST)"

// OutputTime is the name of the completion output.
const OutputTime = "time"

// Notices emitted after each registration.
const (
	NoticeBranch = "Branch Registered"
	NoticeCommit = "Commit Registered"
)

const branchRefPrefix = "refs/heads/"

// State is a step of the registration sequence.
type State int

// States of a run, in order. StateDone and StateFailed
// are terminal.
const (
	StateAuthenticating State = iota
	StateRegisteringBranch
	StateRegisteringCommit
	StateDone
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateRegisteringBranch:
		return "registering branch"
	case StateRegisteringCommit:
		return "registering commit"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Sink receives what the run reports to the CI job.
type Sink interface {
	Info(msg string)
	Notice(msg string)
	SetOutput(name string, value string) error
	SetFailed(msg string)
}

// Config holds everything a run needs.
type Config struct {
	// Client talks to the Dev Center.
	Client *devcenter.Client
	// APIKey is exchanged for a credential.
	APIKey string

	// Owner and Repo identify the repository.
	Owner string
	Repo  string
	// Ref is the git ref of the run, e.g.
	// "refs/heads/main".
	Ref string
	// SHA is the commit to register.
	SHA string

	// Source provides the commit metadata.
	Source git.CommitSource
	// Sink receives notices, outputs and failures.
	Sink Sink

	// Now returns the wall-clock time. Defaults to
	// time.Now.
	Now func() time.Time
}

// run carries the values produced by earlier steps.
type run struct {
	cfg    Config
	cred   devcenter.Credential
	branch devcenter.Branch
}

// Run executes the registration sequence and returns
// its terminal state. Failures are reported through
// cfg.Sink; Run never panics.
func Run(ctx context.Context, cfg Config) (final State) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	r := &run{cfg: cfg}
	state := StateAuthenticating

	defer func() {
		if p := recover(); p != nil {
			r.fail(state, fmt.Errorf("%v", p))
			final = StateFailed
		}
	}()

	for state != StateDone {
		next, err := r.step(ctx, state)
		if err != nil {
			r.fail(state, err)

			return StateFailed
		}

		state = next
	}

	return StateDone
}

func (r *run) step(
	ctx context.Context,
	state State,
) (State, error) {
	switch state {
	case StateAuthenticating:
		return StateRegisteringBranch, r.authenticate(ctx)
	case StateRegisteringBranch:
		return StateRegisteringCommit, r.registerBranch(ctx)
	case StateRegisteringCommit:
		if err := r.registerCommit(ctx); err != nil {
			return StateFailed, err
		}

		return StateDone, r.finish()
	default:
		return StateFailed, fmt.Errorf(
			"unexpected state %s", state,
		)
	}
}

func (r *run) authenticate(ctx context.Context) error {
	r.cfg.Sink.Info(
		"Authenticating @ " + r.cfg.Client.BaseURL(),
	)

	cred, err := devcenter.Authenticate(
		ctx, r.cfg.Client, r.cfg.APIKey,
	)
	if err != nil {
		return err
	}

	r.cred = cred
	r.cfg.Sink.Info("Authenticated!")

	return nil
}

func (r *run) registerBranch(ctx context.Context) error {
	req := devcenter.BranchCreate{
		ID:   BranchID(r.cfg.Ref),
		Repo: r.cfg.Owner + "/" + r.cfg.Repo,
	}

	if !strings.HasPrefix(r.cfg.Ref, branchRefPrefix) {
		slog.Warn(
			"ref is not a branch, registering it unchanged",
			"ref", r.cfg.Ref,
		)
	}

	slog.Info(
		"registering branch",
		"id", req.ID,
		"repo", req.Repo,
	)

	branch, err := r.cfg.Client.RegisterBranch(
		ctx, r.cred, req,
	)
	if err != nil {
		return err
	}

	r.branch = branch
	r.cfg.Sink.Notice(NoticeBranch)

	return nil
}

func (r *run) registerCommit(ctx context.Context) error {
	info, err := r.cfg.Source.GetCommit(ctx, git.CommitRef{
		Owner: r.cfg.Owner,
		Repo:  r.cfg.Repo,
		Ref:   r.cfg.SHA,
	})
	if err != nil {
		return err
	}

	req := NewCommit(r.cfg.SHA, r.branch.ID, info)

	slog.Info(
		"registering commit",
		"id", req.ID,
		"branch", req.BranchID,
		"name", req.Name,
	)

	if err := r.cfg.Client.RegisterCommit(
		ctx, r.cred, req,
	); err != nil {
		return err
	}

	r.cfg.Sink.Notice(NoticeCommit)

	return nil
}

func (r *run) finish() error {
	return r.cfg.Sink.SetOutput(
		OutputTime, r.cfg.Now().Format(TimeLayout),
	)
}

// fail logs the full error and reports its message
// once.
func (r *run) fail(state State, err error) {
	slog.Error(
		"registration failed",
		"state", state.String(),
		"error", err,
	)

	r.cfg.Sink.SetFailed(err.Error())
}

// BranchID derives the Dev Center branch id from a git
// ref by stripping the refs/heads/ prefix. Any other
// ref, a tag ref included, is returned unchanged.
func BranchID(ref string) string {
	return strings.TrimPrefix(ref, branchRefPrefix)
}

// NewCommit builds the registration payload of commit
// sha on branchID. The author is left empty, and so
// omitted, when the committer is unknown.
func NewCommit(
	sha string,
	branchID string,
	info git.CommitInfo,
) devcenter.CommitCreate {
	name, description := commitmsg.Split(info.Message)

	return devcenter.CommitCreate{
		ID:          sha,
		BranchID:    branchID,
		Name:        name,
		Description: description,
		Author:      info.CommitterEmail,
	}
}
