package suggest_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wayfarer/pkg/suggest"
)

var _ = Describe("Catalog", func() {
	var c *suggest.Catalog

	BeforeEach(func() {
		c = suggest.DefaultCatalog()
	})

	It("lists the travel functions in order", func() {
		names := []string{}
		for _, fn := range c.Functions() {
			names = append(names, fn.Name)
		}
		Expect(names).To(Equal([]string{"showImages", "analyzeReviews", "bookRoom"}))
	})

	It("looks functions up by name", func() {
		fn, ok := c.Lookup("bookRoom")
		Expect(ok).To(BeTrue())
		Expect(fn.Description).To(Equal("Initiate the room booking process"))

		_, ok = c.Lookup("bookFlight")
		Expect(ok).To(BeFalse())
	})

	It("filters unknown and duplicate names", func() {
		Expect(c.Filter([]string{"bookRoom", "teleport", "showImages", "bookRoom"})).
			To(Equal([]string{"bookRoom", "showImages"}))
		Expect(c.Filter(nil)).To(BeEmpty())
	})

	It("normalizes decorated reply lines before matching", func() {
		Expect(c.Filter([]string{
			"- showImages",
			"2. analyzeReviews: summarize what guests said",
			"bookRoom: Initiate the room booking process",
			"* `showImages`",
			"**bookRoom()**",
			"teleport: not offered",
		})).To(Equal([]string{"showImages", "analyzeReviews", "bookRoom"}))
	})

	It("describes itself for prompts", func() {
		Expect(c.Describe()).To(Equal(
			"- showImages: Display images of hotels or destinations\n" +
				"- analyzeReviews: Analyze reviews for a specific hotel\n" +
				"- bookRoom: Initiate the room booking process"))
	})

	It("ignores duplicate definitions", func() {
		c := suggest.NewCatalog(
			suggest.Function{Name: "a", Description: "first"},
			suggest.Function{Name: "a", Description: "second"},
		)
		Expect(c.Functions()).To(HaveLen(1))
		fn, _ := c.Lookup("a")
		Expect(fn.Description).To(Equal("first"))
	})
})
