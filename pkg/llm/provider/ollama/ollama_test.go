package ollama_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	"github.com/papercomputeco/wayfarer/pkg/llm/provider/ollama"
)

var _ = Describe("Ollama Client", func() {
	var (
		server   *httptest.Server
		gotPath  string
		gotBody  map[string]any
		status   int
		response string
	)

	BeforeEach(func() {
		gotBody = nil
		status = http.StatusOK
		response = `{"model":"llama3.2","message":{"role":"assistant","content":"showImages"},"done":true}`

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(response))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("calls /api/chat without streaming", func() {
		c := ollama.New("llama3.2", ollama.WithBaseURL(server.URL+"/"))

		out, err := c.Invoke(context.Background(), "hello", llm.CallParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("showImages"))
		Expect(gotPath).To(Equal("/api/chat"))
		Expect(gotBody).To(HaveKeyWithValue("stream", false))
		Expect(gotBody).NotTo(HaveKey("options"))
	})

	It("places temperature and num_predict in options", func() {
		c := ollama.New("llama3.2", ollama.WithBaseURL(server.URL))

		_, err := c.Invoke(context.Background(), "hello", llm.NewCallParams(llm.WithTemperature(0), llm.WithMaxTokens(32)))
		Expect(err).NotTo(HaveOccurred())
		Expect(gotBody).To(HaveKey("options"))
		options := gotBody["options"].(map[string]any)
		Expect(options).To(HaveKeyWithValue("temperature", BeNumerically("==", 0)))
		Expect(options).To(HaveKeyWithValue("num_predict", BeNumerically("==", 32)))
	})

	It("surfaces the error field as an InvocationError", func() {
		status = http.StatusNotFound
		response = `{"error":"model \"nope\" not found"}`
		c := ollama.New("nope", ollama.WithBaseURL(server.URL))

		_, err := c.Invoke(context.Background(), "hello", llm.CallParams{})
		var invErr *llm.InvocationError
		Expect(errors.As(err, &invErr)).To(BeTrue())
		Expect(invErr.Model).To(Equal("nope"))
		Expect(invErr.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("treats empty content as an error", func() {
		response = `{"message":{"role":"assistant","content":""},"done":true}`
		c := ollama.New("", ollama.WithBaseURL(server.URL))

		_, err := c.Invoke(context.Background(), "hello", llm.CallParams{})
		Expect(errors.Is(err, llm.ErrEmptyReply)).To(BeTrue())
	})
})
