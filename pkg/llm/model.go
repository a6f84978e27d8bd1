package llm

import "context"

// Model is a handle to a text-generation backend. Handles are long-lived
// and shared between concurrent callers, so implementations must be safe
// for concurrent use and must never keep per-call state on the handle.
type Model interface {
	// Invoke sends prompt to the backend and returns its raw text reply.
	// Failures are reported as *InvocationError.
	Invoke(ctx context.Context, prompt string, params CallParams) (string, error)
}

// TemperatureAware is implemented by models that expose a sampling
// temperature setting.
type TemperatureAware interface {
	SupportsTemperature() bool
}

// Func adapts a plain function to the Model interface.
type Func func(ctx context.Context, prompt string, params CallParams) (string, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, prompt string, params CallParams) (string, error) {
	return f(ctx, prompt, params)
}
