package suggest_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wayfarer/pkg/suggest"
)

var _ = Describe("TemplateSet", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("is empty for a missing directory", func() {
		ts, err := suggest.NewTemplateSet(filepath.Join(dir, "nope"), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ts.Names()).To(BeEmpty())
	})

	It("loads only .tmpl files", func() {
		Expect(os.WriteFile(filepath.Join(dir, "functions.tmpl"), []byte("F {chat_history}"), 0o600)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600)).To(Succeed())

		ts, err := suggest.NewTemplateSet(dir, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ts.Names()).To(ConsistOf("functions"))

		t, ok := ts.Lookup("functions")
		Expect(ok).To(BeTrue())
		Expect(t.Placeholders()).To(Equal([]string{"chat_history"}))
	})

	It("picks up changes on Reload", func() {
		ts, err := suggest.NewTemplateSet(dir, nil)
		Expect(err).NotTo(HaveOccurred())
		_, ok := ts.Lookup("followups")
		Expect(ok).To(BeFalse())

		Expect(os.WriteFile(filepath.Join(dir, "followups.tmpl"), []byte("new"), 0o600)).To(Succeed())
		Expect(ts.Reload()).To(Succeed())

		t, ok := ts.Lookup("followups")
		Expect(ok).To(BeTrue())
		Expect(t.Text()).To(Equal("new"))
	})

	It("reloads automatically while watching", func() {
		ts, err := suggest.NewTemplateSet(dir, nil)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- ts.Watch(ctx) }()
		DeferCleanup(func() {
			cancel()
			Eventually(done).WithTimeout(2 * time.Second).Should(Receive())
		})

		Eventually(func() bool {
			_ = os.WriteFile(filepath.Join(dir, "followups.tmpl"), []byte("watched {chat_history}"), 0o600)
			t, ok := ts.Lookup("followups")
			return ok && t.Text() == "watched {chat_history}"
		}).WithTimeout(5 * time.Second).WithPolling(100 * time.Millisecond).Should(BeTrue())
	})

	It("does not watch a missing directory", func() {
		ts, err := suggest.NewTemplateSet(filepath.Join(dir, "missing"), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ts.Watch(context.Background())).To(Succeed())
	})
})
