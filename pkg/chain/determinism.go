package chain

import (
	"context"

	"github.com/papercomputeco/wayfarer/pkg/llm"
)

// Deterministic derives the params for an extraction call: temperature 0
// when the model exposes a temperature setting, params unchanged
// otherwise. The model itself is never modified.
func Deterministic(m llm.Model, params llm.CallParams) llm.CallParams {
	ta, ok := m.(llm.TemperatureAware)
	if !ok || !ta.SupportsTemperature() {
		return params
	}
	return params.With(llm.WithTemperature(0))
}

// InvokeStage calls m with the rendered prompt under the determinism
// policy. Model errors are returned unchanged.
func InvokeStage(m llm.Model, opts ...llm.CallOption) Stage[string, string] {
	return func(ctx context.Context, prompt string) (string, error) {
		params := Deterministic(m, llm.NewCallParams(opts...))
		return m.Invoke(ctx, prompt, params)
	}
}
