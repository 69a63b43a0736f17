package dataimport

import "context"

// Step processes one row in place.
type Step[R any] interface {
	Execute(ctx context.Context, row *R) error
}

// StepFunc adapts a function to Step.
type StepFunc[R any] func(ctx context.Context, row *R) error

// Execute calls f.
func (f StepFunc[R]) Execute(ctx context.Context, row *R) error {
	return f(ctx, row)
}

// AfterExecuteHook is implemented by steps that hold run-scoped work, such
// as queued publish events. It is called once, after the last row.
type AfterExecuteHook interface {
	AfterExecute(ctx context.Context) error
}
