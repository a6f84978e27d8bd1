package chain_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wayfarer/pkg/chain"
	"github.com/papercomputeco/wayfarer/pkg/llm"
)

// recordingModel captures the params of every call keyed by prompt.
type recordingModel struct {
	supportsTemperature bool
	barrier             *sync.WaitGroup
	err                 error

	mu    sync.Mutex
	calls map[string]llm.CallParams
}

func newRecordingModel(supports bool) *recordingModel {
	return &recordingModel{supportsTemperature: supports, calls: map[string]llm.CallParams{}}
}

func (m *recordingModel) SupportsTemperature() bool { return m.supportsTemperature }

func (m *recordingModel) Invoke(_ context.Context, prompt string, params llm.CallParams) (string, error) {
	if m.barrier != nil {
		m.barrier.Done()
		m.barrier.Wait()
	}
	m.mu.Lock()
	m.calls[prompt] = params
	m.mu.Unlock()
	return "reply to " + prompt, m.err
}

func (m *recordingModel) params(prompt string) llm.CallParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[prompt]
}

var _ = Describe("Deterministic", func() {
	It("forces temperature 0 for temperature-aware models", func() {
		base := llm.NewCallParams(llm.WithTemperature(0.8), llm.WithMaxTokens(10))

		derived := chain.Deterministic(newRecordingModel(true), base)
		Expect(*derived.Temperature).To(BeZero())
		Expect(derived.MaxTokens).To(Equal(10))
		Expect(*base.Temperature).To(BeNumerically("~", 0.8))
	})

	It("leaves params unchanged when the model has no temperature setting", func() {
		base := llm.NewCallParams(llm.WithMaxTokens(10))
		Expect(chain.Deterministic(newRecordingModel(false), base)).To(Equal(base))

		plain := llm.Func(func(context.Context, string, llm.CallParams) (string, error) { return "", nil })
		Expect(chain.Deterministic(plain, base)).To(Equal(base))
	})
})

var _ = Describe("InvokeStage", func() {
	It("passes the deterministic params to the model", func() {
		m := newRecordingModel(true)

		out, err := chain.InvokeStage(m)(context.Background(), "p")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("reply to p"))
		Expect(m.params("p").Temperature).NotTo(BeNil())
		Expect(*m.params("p").Temperature).To(BeZero())
	})

	It("propagates model errors unchanged", func() {
		m := newRecordingModel(true)
		m.err = &llm.InvocationError{Provider: "stub", Err: errors.New("down")}

		_, err := chain.InvokeStage(m)(context.Background(), "p")
		Expect(err).To(BeIdenticalTo(m.err))
	})

	It("isolates concurrent invocations sharing one model", func() {
		m := newRecordingModel(true)
		m.barrier = &sync.WaitGroup{}
		m.barrier.Add(2)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			_, err := chain.InvokeStage(m)(context.Background(), "extraction")
			Expect(err).NotTo(HaveOccurred())
		}()
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			_, err := m.Invoke(context.Background(), "creative", llm.NewCallParams(llm.WithTemperature(0.9)))
			Expect(err).NotTo(HaveOccurred())
		}()

		finished := make(chan struct{})
		go func() {
			wg.Wait()
			close(finished)
		}()
		Eventually(finished).WithTimeout(2 * time.Second).Should(BeClosed())

		Expect(*m.params("extraction").Temperature).To(BeZero())
		Expect(*m.params("creative").Temperature).To(BeNumerically("~", 0.9))
	})
})
