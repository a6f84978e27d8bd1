package kafka_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/wayfarer/pkg/eventstream"
	"github.com/papercomputeco/wayfarer/pkg/eventstream/kafka"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		w *fakeWriter
		p *kafka.Publisher
	)

	BeforeEach(func() {
		w = &fakeWriter{}
		p = kafka.NewPublisherWithWriter(w, "wayfarer.suggestions")
	})

	It("writes the event as JSON keyed by chat id", func() {
		event := eventstream.NewSuggestionsGeneratedEvent("followups", []string{"Any pools?"})
		event.ChatID = "chat-42"

		Expect(p.PublishSuggestions(context.Background(), event)).To(Succeed())
		Expect(w.msgs).To(HaveLen(1))
		Expect(string(w.msgs[0].Key)).To(Equal("chat-42"))
		Expect(w.msgs[0].Headers).To(ContainElement(kafkago.Header{Key: "event_type", Value: []byte("wayfarer.suggestions.generated")}))

		var got eventstream.SuggestionsGeneratedEvent
		Expect(json.Unmarshal(w.msgs[0].Value, &got)).To(Succeed())
		Expect(got.Items).To(Equal([]string{"Any pools?"}))
	})

	It("falls back to the event id as key", func() {
		event := eventstream.NewSuggestionsGeneratedEvent("functions", nil)

		Expect(p.PublishSuggestions(context.Background(), event)).To(Succeed())
		Expect(string(w.msgs[0].Key)).To(Equal(event.EventID))
	})

	It("rejects nil events", func() {
		Expect(p.PublishSuggestions(context.Background(), nil)).To(MatchError(eventstream.ErrNilEvent))
	})

	It("wraps writer errors", func() {
		w.err = errors.New("leader not available")
		err := p.PublishSuggestions(context.Background(), eventstream.NewSuggestionsGeneratedEvent("functions", nil))
		Expect(err).To(MatchError(ContainSubstring("publish to wayfarer.suggestions")))
		Expect(errors.Is(err, w.err)).To(BeTrue())
	})

	It("closes the writer", func() {
		Expect(p.Close()).To(Succeed())
		Expect(w.closed).To(BeTrue())
	})

	It("requires brokers", func() {
		_, err := kafka.NewPublisher(kafka.Config{Topic: "t"})
		Expect(err).To(MatchError(kafka.ErrNoBrokers))
	})

	It("parses broker lists", func() {
		Expect(kafka.ParseBrokers(" a:9092, ,b:9092 ")).To(Equal([]string{"a:9092", "b:9092"}))
		Expect(kafka.ParseBrokers("")).To(BeEmpty())
	})
})
