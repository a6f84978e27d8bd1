// Package testutils holds test doubles shared across package test suites.
package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/papercomputeco/wayfarer/pkg/llm"
)

// Call records a single MockModel invocation.
type Call struct {
	Prompt string
	Params llm.CallParams
}

// MockModel is a test model that returns a canned reply and records
// every call.
type MockModel struct {
	Reply string

	// Err is returned from every Invoke when set.
	Err error

	// Temperature controls SupportsTemperature.
	Temperature bool

	mu    sync.Mutex
	calls []Call
}

// NewMockModel returns a temperature-aware MockModel answering reply.
func NewMockModel(reply string) *MockModel {
	return &MockModel{Reply: reply, Temperature: true}
}

func (m *MockModel) Invoke(ctx context.Context, prompt string, params llm.CallParams) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Prompt: prompt, Params: params})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", &llm.InvocationError{Provider: "mock", Err: err}
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockModel) SupportsTemperature() bool {
	return m.Temperature
}

// Calls returns a copy of the recorded calls.
func (m *MockModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// LastPrompt returns the prompt of the most recent call.
func (m *MockModel) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1].Prompt
}

// MockResolver maps "provider/model" keys to models.
type MockResolver struct {
	Models map[string]llm.Model

	// Default is returned when provider and model are both empty.
	Default llm.Model
}

func (r *MockResolver) Get(provider, model string) (llm.Model, error) {
	if provider == "" && model == "" && r.Default != nil {
		return r.Default, nil
	}
	if m, ok := r.Models[provider+"/"+model]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("mock resolver: no model for %s/%s", provider, model)
}
