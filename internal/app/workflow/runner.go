// Package workflow provides a minimal sequential step runner with
// compensation. A workflow is an ordered list of steps; each step has a
// forward function and an optional compensation function. When a step
// fails, the runner invokes compensation in reverse order, starting with
// the failed step itself — a step that captured rollback state before
// failing mid-way still gets the chance to undo its partial work. Steps
// whose forward phase never armed any state compensate as a no-op.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Step pairs a forward action with its rollback. Compensate may be nil for
// steps with no side effects (fetches, pure transforms).
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Runner executes workflows. Safe for concurrent use; it holds no per-run
// state.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a Runner. A nil logger is replaced with a no-op logger.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{logger: logger}
}

// Execute runs the steps in order. On the first failure it compensates the
// failed step and every completed step in reverse order, then returns the
// step error. Compensation failures are logged as unrecoverable — there is
// no nested compensation for the compensation phase — and joined into the
// returned error.
func (r *Runner) Execute(ctx context.Context, name string, steps ...Step) error {
	for i, step := range steps {
		if err := step.Run(ctx); err != nil {
			r.logger.ErrorContext(ctx, "workflow step failed",
				slog.String("workflow", name),
				slog.String("step", step.Name),
				slog.Any("error", err),
			)
			stepErr := fmt.Errorf("%s/%s: %w", name, step.Name, err)
			if compErr := r.rollback(ctx, name, steps[:i+1]); compErr != nil {
				return errors.Join(stepErr, compErr)
			}
			return stepErr
		}
	}
	return nil
}

// rollback compensates steps in reverse order. All compensations are
// attempted even when earlier ones fail.
func (r *Runner) rollback(ctx context.Context, name string, completed []Step) error {
	var errs []error
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			r.logger.ErrorContext(ctx, "compensation failed, state may be inconsistent",
				slog.String("workflow", name),
				slog.String("step", step.Name),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("compensating %s/%s: %w", name, step.Name, err))
		}
	}
	return errors.Join(errs...)
}
