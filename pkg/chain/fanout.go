package chain

import (
	"context"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PromptInputs maps placeholder names to their rendered values.
type PromptInputs map[string]string

// FanOut runs every branch concurrently against the same input and
// merges the results by branch name. All branches finish before the
// merge; the first branch error cancels the rest and is returned.
func FanOut[In any](branches map[string]Stage[In, string]) Stage[In, PromptInputs] {
	names := slices.Sorted(maps.Keys(branches))
	stages := make([]Stage[In, string], len(names))
	for i, name := range names {
		stages[i] = branches[name]
	}

	return func(ctx context.Context, in In) (PromptInputs, error) {
		g, gctx := errgroup.WithContext(ctx)

		var mu sync.Mutex
		out := make(PromptInputs, len(names))

		for i, name := range names {
			stage := stages[i]
			g.Go(func() error {
				v, err := stage(gctx, in)
				if err != nil {
					return err
				}
				mu.Lock()
				out[name] = v
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	}
}
