package chain_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wayfarer/pkg/chain"
	"github.com/papercomputeco/wayfarer/pkg/llm"
)

var _ = Describe("FormatHistory", func() {
	It("returns an empty string for no turns", func() {
		out, err := chain.FormatHistory(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
	})

	It("renders one labelled line per turn in order", func() {
		turns := []llm.ChatTurn{
			llm.NewUserTurn("I'm going to Paris"),
			llm.NewAssistantTurn("Great choice! When?"),
			llm.NewUserTurn("In May"),
		}

		out, err := chain.FormatHistory(turns)
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(out, "\n")
		Expect(lines).To(HaveLen(len(turns)))
		Expect(lines[0]).To(Equal("User: I'm going to Paris"))
		Expect(lines[1]).To(Equal("Assistant: Great choice! When?"))
		Expect(lines[2]).To(Equal("User: In May"))
	})

	It("keeps embedded newlines verbatim", func() {
		out, err := chain.FormatHistory([]llm.ChatTurn{llm.NewUserTurn("line one\nline two")})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("User: line one\nline two"))
	})

	It("fails with a ConfigurationError on an unknown role", func() {
		turns := []llm.ChatTurn{
			llm.NewUserTurn("hi"),
			{Role: "system", Content: "be nice"},
		}

		_, err := chain.FormatHistory(turns)
		Expect(errors.Is(err, chain.ErrConfiguration)).To(BeTrue())

		var cfgErr *chain.ConfigurationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Reason).To(ContainSubstring(`"system"`))
	})
})
