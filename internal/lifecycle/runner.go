// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"context"
	"errors"

	"github.com/runlifecycle/runlifecycle/pkg/manifest"
)

const (
	traceTag = "run-lifecycle"
	errorTag = "lifecycle"
)

type (
	// Runner runs lifecycle stages through an Executor.
	Runner struct {
		executor Executor
		log      Logger
		status   *ExitStatus
	}

	// Option configures a Runner.
	Option func(*Runner)
)

// WithLogger sets the logger the runner and its executor calls use.
func WithLogger(l Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithExitStatus makes the runner record failures on s instead of its own status.
// Several runners may share one ExitStatus.
func WithExitStatus(s *ExitStatus) Option {
	return func(r *Runner) {
		if s != nil {
			r.status = s
		}
	}
}

// NewRunner creates a Runner that executes scripts with executor.
func NewRunner(executor Executor, opts ...Option) *Runner {
	r := &Runner{
		executor: executor,
		log:      nopLogger{},
		status:   &ExitStatus{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExitStatus returns the status failures are recorded on.
func (r *Runner) ExitStatus() *ExitStatus { return r.status }

// Run executes stage of pkg once, with opts normalized for pkg.Location.
//
// The caller checks that pkg defines stage; see ForCommand for a RunFunc that
// does. Run sets pkg.RuntimeID before calling the executor and returns the same
// pkg on success. A failing script yields a *ValidationError whose code is also
// recorded on the runner's ExitStatus. An executor error caused by ctx ending is
// returned as is and is not recorded.
func (r *Runner) Run(ctx context.Context, pkg *manifest.Package, stage string, opts any) (*manifest.Package, error) {
	if pkg == nil {
		return nil, ErrNilPackage
	}

	r.log.Silly(traceTag, stage, pkg.Name)

	conf := Normalize(opts, pkg.Location)
	pkg.RuntimeID = pkg.ID()

	err := r.executor.Execute(ctx, pkg, stage, pkg.Location, ExecOptions{
		Passthrough: conf.Passthrough(),
		Config:      conf,
		Dir:         pkg.Location,
		FailOK:      false,
		Log:         r.log,
	})
	if err == nil {
		return pkg, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		r.log.Silly(traceTag, stage, pkg.Name, "interrupted")
		return nil, err
	}

	code := exitCodeOf(err)
	r.log.Error(errorTag, "%q errored in %q, exiting %d", stage, pkg.Name, int(code))
	r.status.Set(code)

	return nil, &ValidationError{
		Stage:   stage,
		Package: pkg.Name,
		Code:    code,
		Err:     err,
	}
}
