// Package storagetest holds the behaviour every storage.Driver must share,
// written as ginkgo specs that driver suites register.
package storagetest

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/storage"
)

// DriverSpecs registers the shared driver specs. newDriver is called
// before each spec and the result closed after it.
func DriverSpecs(newDriver func() storage.Driver) {
	var (
		ctx    context.Context
		driver storage.Driver
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = newDriver()
	})

	AfterEach(func() {
		if driver != nil {
			Expect(driver.Close()).To(Succeed())
		}
	})

	Describe("chats", func() {
		It("assigns an id and creation time", func() {
			chat := &storage.Chat{Title: "Paris in May", FocusMode: "hotels"}
			Expect(driver.CreateChat(ctx, chat)).To(Succeed())
			Expect(chat.ID).NotTo(BeEmpty())
			Expect(chat.CreatedAt).NotTo(BeZero())

			got, err := driver.GetChat(ctx, chat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("Paris in May"))
			Expect(got.FocusMode).To(Equal("hotels"))
			Expect(got.CreatedAt).To(BeTemporally("~", chat.CreatedAt, time.Second))
		})

		It("returns NotFoundError for unknown chats", func() {
			_, err := driver.GetChat(ctx, "missing")
			Expect(storage.IsNotFound(err)).To(BeTrue())
			Expect(err).To(MatchError("chat not found: missing"))
		})

		It("lists chats newest first", func() {
			older := &storage.Chat{Title: "older", CreatedAt: time.Now().UTC().Add(-time.Hour)}
			newer := &storage.Chat{Title: "newer", CreatedAt: time.Now().UTC()}
			Expect(driver.CreateChat(ctx, older)).To(Succeed())
			Expect(driver.CreateChat(ctx, newer)).To(Succeed())

			chats, err := driver.ListChats(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(chats).To(HaveLen(2))
			Expect(chats[0].Title).To(Equal("newer"))
			Expect(chats[1].Title).To(Equal("older"))
		})

		It("rejects nil chats", func() {
			err := driver.CreateChat(ctx, nil)
			Expect(errors.Is(err, storage.ErrInvalidRecord)).To(BeTrue())
		})
	})

	Describe("messages", func() {
		var chat *storage.Chat

		BeforeEach(func() {
			chat = &storage.Chat{Title: "t"}
			Expect(driver.CreateChat(ctx, chat)).To(Succeed())
		})

		It("returns messages in insertion order", func() {
			base := time.Now().UTC()
			Expect(driver.AddMessage(ctx, &storage.Message{ChatID: chat.ID, Role: llm.RoleUser, Content: "I'm going to Paris", CreatedAt: base})).To(Succeed())
			Expect(driver.AddMessage(ctx, &storage.Message{
				ChatID:    chat.ID,
				MessageID: "m-2",
				Role:      llm.RoleAssistant,
				Content:   "When?",
				Metadata:  map[string]any{"source": "web"},
				CreatedAt: base.Add(time.Millisecond),
			})).To(Succeed())

			msgs, err := driver.Messages(ctx, chat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].Content).To(Equal("I'm going to Paris"))
			Expect(msgs[1].MessageID).To(Equal("m-2"))
			Expect(msgs[1].Metadata).To(HaveKeyWithValue("source", "web"))

			Expect(storage.History(msgs)).To(Equal([]llm.ChatTurn{
				llm.NewUserTurn("I'm going to Paris"),
				llm.NewAssistantTurn("When?"),
			}))
		})

		It("refuses messages for unknown chats", func() {
			err := driver.AddMessage(ctx, &storage.Message{ChatID: "missing", Role: llm.RoleUser, Content: "x"})
			Expect(storage.IsNotFound(err)).To(BeTrue())

			_, err = driver.Messages(ctx, "missing")
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})

		It("returns an empty list for a chat without messages", func() {
			msgs, err := driver.Messages(ctx, chat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(BeEmpty())
		})
	})

	Describe("suggestions", func() {
		It("stores and returns suggestion records", func() {
			chat := &storage.Chat{Title: "t"}
			Expect(driver.CreateChat(ctx, chat)).To(Succeed())

			rec := &storage.SuggestionRecord{
				ChatID:   chat.ID,
				Kind:     "followups",
				Items:    []string{"What hotels are near the Louvre?", "What is the weather in Paris?"},
				Provider: "ollama",
				Model:    "llama3.2",
			}
			Expect(driver.SaveSuggestions(ctx, rec)).To(Succeed())
			Expect(rec.ID).NotTo(BeEmpty())

			recs, err := driver.Suggestions(ctx, chat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(1))
			Expect(recs[0].Kind).To(Equal("followups"))
			Expect(recs[0].Items).To(Equal(rec.Items))
			Expect(recs[0].Model).To(Equal("llama3.2"))
		})

		It("refuses records for unknown chats", func() {
			err := driver.SaveSuggestions(ctx, &storage.SuggestionRecord{ChatID: "missing", Kind: "functions"})
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})
	})
}
