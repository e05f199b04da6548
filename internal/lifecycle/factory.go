// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"context"
	"errors"

	"github.com/runlifecycle/runlifecycle/internal/config"
	"github.com/runlifecycle/runlifecycle/internal/issue"
	"github.com/runlifecycle/runlifecycle/pkg/manifest"
)

// RunFunc runs one stage of one package with a configuration captured when the
// RunFunc was created. Packages that do not define the stage are returned
// untouched.
type RunFunc func(ctx context.Context, pkg *manifest.Package, stage string) (*manifest.Package, error)

// ForCommand loads configuration through provider once and returns a RunFunc
// bound to that snapshot. Every call of the RunFunc shares the snapshot, so
// configuration changes after ForCommand returns are not observed.
func (r *Runner) ForCommand(ctx context.Context, provider config.Provider, opts config.LoadOptions) (RunFunc, error) {
	conf, err := provider.Load(ctx, opts)
	if err != nil {
		var actionable *issue.ActionableError
		if errors.As(err, &actionable) {
			return nil, err
		}
		return nil, issue.WrapWithContext(err, "load configuration", opts.ConfigFilePath)
	}

	snapshot := conf.Snapshot()

	return func(ctx context.Context, pkg *manifest.Package, stage string) (*manifest.Package, error) {
		if _, ok := pkg.Script(stage); !ok {
			return pkg, nil
		}
		return r.Run(ctx, pkg, stage, snapshot)
	}, nil
}

// CreateRunner builds a Runner around executor and binds it to configuration
// loaded through provider. It returns the runner too, for its ExitStatus.
func CreateRunner(ctx context.Context, executor Executor, provider config.Provider, opts config.LoadOptions, runnerOpts ...Option) (*Runner, RunFunc, error) {
	r := NewRunner(executor, runnerOpts...)
	run, err := r.ForCommand(ctx, provider, opts)
	if err != nil {
		return nil, nil, err
	}
	return r, run, nil
}
