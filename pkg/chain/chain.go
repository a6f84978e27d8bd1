// Package chain composes typed stages into pipelines that turn a chat
// transcript into a prompt, a model call and a parsed reply.
package chain

import "context"

// Stage is one step of a chain.
type Stage[In, Out any] func(ctx context.Context, in In) (Out, error)

// Map lifts a pure function into a Stage.
func Map[In, Out any](f func(In) (Out, error)) Stage[In, Out] {
	return func(_ context.Context, in In) (Out, error) {
		return f(in)
	}
}

// Then runs a and feeds its output to b. An error from a is returned
// as is and b never runs.
func Then[A, B, C any](a Stage[A, B], b Stage[B, C]) Stage[A, C] {
	return func(ctx context.Context, in A) (C, error) {
		var zero C

		mid, err := a(ctx, in)
		if err != nil {
			return zero, err
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return b(ctx, mid)
	}
}

// Chain is a composed pipeline. It is immutable and safe for concurrent use.
type Chain[In, Out any] struct {
	stage Stage[In, Out]
}

// New wraps stage as a Chain.
func New[In, Out any](stage Stage[In, Out]) *Chain[In, Out] {
	return &Chain[In, Out]{stage: stage}
}

// Invoke runs the chain in the calling goroutine. The first stage error is
// returned unchanged; there are no partial results and no retries.
func (c *Chain[In, Out]) Invoke(ctx context.Context, in In) (Out, error) {
	if err := ctx.Err(); err != nil {
		var zero Out
		return zero, err
	}
	return c.stage(ctx, in)
}
