package llm

// CallParams carries the generation settings of a single model call.
// A zero CallParams means "use the provider defaults".
type CallParams struct {
	// Temperature overrides the sampling temperature when non-nil.
	Temperature *float64

	// MaxTokens caps the reply length when greater than zero.
	MaxTokens int
}

// CallOption configures CallParams.
type CallOption func(*CallParams)

// NewCallParams builds CallParams from the given options.
func NewCallParams(opts ...CallOption) CallParams {
	var p CallParams
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) CallOption {
	return func(p *CallParams) {
		p.Temperature = &t
	}
}

// WithMaxTokens caps the number of tokens in the reply.
func WithMaxTokens(n int) CallOption {
	return func(p *CallParams) {
		p.MaxTokens = n
	}
}

// With returns a copy of p with opts applied. The receiver and any
// pointers it holds are left untouched.
func (p CallParams) With(opts ...CallOption) CallParams {
	out := p
	if p.Temperature != nil {
		t := *p.Temperature
		out.Temperature = &t
	}
	for _, opt := range opts {
		opt(&out)
	}
	return out
}
