package chain_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wayfarer/pkg/chain"
)

var _ = Describe("Then", func() {
	It("feeds each stage's output to the next", func() {
		double := chain.Map(func(n int) (int, error) { return n * 2, nil })
		format := chain.Map(func(n int) (string, error) { return strconv.Itoa(n), nil })

		out, err := chain.New(chain.Then(double, format)).Invoke(context.Background(), 21)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("42"))
	})

	It("stops at the first error and returns it unchanged", func() {
		boom := errors.New("boom")
		var ran atomic.Bool

		fail := chain.Map(func(int) (int, error) { return 0, boom })
		after := chain.Map(func(n int) (int, error) {
			ran.Store(true)
			return n, nil
		})

		_, err := chain.New(chain.Then(fail, after)).Invoke(context.Background(), 1)
		Expect(err).To(BeIdenticalTo(boom))
		Expect(ran.Load()).To(BeFalse())
	})
})

var _ = Describe("Chain", func() {
	It("refuses to start with a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := chain.New(chain.Map(func(n int) (int, error) { return n, nil }))
		_, err := c.Invoke(ctx, 1)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})

var _ = Describe("FanOut", func() {
	It("merges every branch by name", func() {
		stage := chain.FanOut(map[string]chain.Stage[int, string]{
			"double": chain.Map(func(n int) (string, error) { return strconv.Itoa(n * 2), nil }),
			"same":   chain.Map(func(n int) (string, error) { return strconv.Itoa(n), nil }),
		})

		out, err := stage(context.Background(), 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(chain.PromptInputs{"double": "8", "same": "4"}))
	})

	It("runs branches concurrently", func() {
		var wg sync.WaitGroup
		wg.Add(2)
		rendezvous := func(_ context.Context, _ int) (string, error) {
			wg.Done()
			wg.Wait()
			return "ok", nil
		}

		stage := chain.FanOut(map[string]chain.Stage[int, string]{"a": rendezvous, "b": rendezvous})

		done := make(chan error, 1)
		go func() {
			_, err := stage(context.Background(), 0)
			done <- err
		}()
		Eventually(done).WithTimeout(2 * time.Second).Should(Receive(BeNil()))
	})

	It("returns a branch error and no partial result", func() {
		boom := errors.New("boom")
		stage := chain.FanOut(map[string]chain.Stage[int, string]{
			"ok":  chain.Map(func(int) (string, error) { return "fine", nil }),
			"bad": chain.Map(func(int) (string, error) { return "", boom }),
		})

		out, err := stage(context.Background(), 0)
		Expect(err).To(BeIdenticalTo(boom))
		Expect(out).To(BeNil())
	})

	It("cancels sibling branches after a failure", func() {
		boom := errors.New("boom")
		stage := chain.FanOut(map[string]chain.Stage[int, string]{
			"slow": func(ctx context.Context, _ int) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
			"bad": chain.Map(func(int) (string, error) { return "", boom }),
		})

		_, err := stage(context.Background(), 0)
		Expect(err).To(BeIdenticalTo(boom))
	})
})
