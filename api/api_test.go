package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/wayfarer/pkg/llm"
	wayfarerlogger "github.com/papercomputeco/wayfarer/pkg/logger"
	"github.com/papercomputeco/wayfarer/pkg/storage"
	"github.com/papercomputeco/wayfarer/pkg/storage/inmemory"
	"github.com/papercomputeco/wayfarer/pkg/suggest"
	testutils "github.com/papercomputeco/wayfarer/pkg/utils/test"
	"github.com/papercomputeco/wayfarer/pkg/worker"
)

func doJSON(server *Server, method, path, body string) (*http.Response, []byte) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.app.Test(req)
	Expect(err).NotTo(HaveOccurred())

	data, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return resp, data
}

var _ = Describe("NewServer", func() {
	It("requires a suggestion service", func() {
		_, err := NewServer(Config{}, nil, inmemory.NewDriver(), nil, wayfarerlogger.Nop())
		Expect(err).To(MatchError(ContainSubstring("suggestion service is required")))
	})

	It("requires a storage driver", func() {
		svc := suggest.NewService(suggest.ServiceConfig{})
		_, err := NewServer(Config{}, svc, nil, nil, wayfarerlogger.Nop())
		Expect(err).To(MatchError(ContainSubstring("storage driver is required")))
	})

	It("requires a logger", func() {
		svc := suggest.NewService(suggest.ServiceConfig{})
		_, err := NewServer(Config{}, svc, inmemory.NewDriver(), nil, nil)
		Expect(err).To(MatchError(ContainSubstring("logger is required")))
	})
})

var _ = Describe("Routes", func() {
	var (
		server *Server
		model  *testutils.MockModel
		driver *inmemory.Driver
		pool   *worker.Pool
	)

	BeforeEach(func() {
		model = testutils.NewMockModel("")
		driver = inmemory.NewDriver()

		svc := suggest.NewService(suggest.ServiceConfig{
			Models: &testutils.MockResolver{
				Models:  map[string]llm.Model{"openai/gpt-4o-mini": model},
				Default: model,
			},
			FunctionLimit: 3,
			FollowupLimit: 5,
		})

		var err error
		pool, err = worker.NewPool(&worker.Config{
			Driver:     driver,
			NumWorkers: 1,
			Logger:     wayfarerlogger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		server, err = NewServer(Config{ListenAddr: ":0"}, svc, driver, pool, wayfarerlogger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		pool.Close()
	})

	createChat := func() storage.Chat {
		resp, body := doJSON(server, http.MethodPost, "/api/chats", `{"title":"Paris trip","focus_mode":"hotels"}`)
		Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

		var chat storage.Chat
		Expect(json.Unmarshal(body, &chat)).To(Succeed())
		return chat
	}

	Describe("GET /api/health", func() {
		It("returns ok", func() {
			resp, body := doJSON(server, http.MethodGet, "/api/health", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(MatchJSON(`{"status":"ok"}`))
		})
	})

	Describe("GET /api/functions/catalog", func() {
		It("returns the catalog", func() {
			resp, body := doJSON(server, http.MethodGet, "/api/functions/catalog", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out struct {
				Functions []suggest.Function `json:"functions"`
			}
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out.Functions).To(HaveLen(3))
			Expect(out.Functions[0].Name).To(Equal("showImages"))
		})
	})

	Describe("POST /api/functions", func() {
		It("returns known functions", func() {
			model.Reply = "<functions>\nshowImages\nteleport\nbookRoom\n</functions>"

			resp, body := doJSON(server, http.MethodPost, "/api/functions", `{
				"chat_history": [
					{"role": "user", "content": "Hotels in Paris?"},
					{"role": "assistant", "content": "Le Marais has several."}
				],
				"chat_model": "gpt-4o-mini",
				"chat_model_provider": "openai"
			}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(MatchJSON(`{"functions":["showImages","bookRoom"]}`))
			Expect(model.LastPrompt()).To(ContainSubstring("User: Hotels in Paris?\nAssistant: Le Marais has several."))
		})

		It("returns 400 for malformed JSON", func() {
			resp, body := doJSON(server, http.MethodPost, "/api/functions", `{"chat_history": [`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(string(body)).To(ContainSubstring("invalid request body"))
		})

		It("returns 500 for an unknown model", func() {
			resp, body := doJSON(server, http.MethodPost, "/api/functions", `{
				"chat_history": [{"role": "user", "content": "hi"}],
				"chat_model": "nope",
				"chat_model_provider": "nope"
			}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
			Expect(string(body)).To(MatchJSON(`{"error":"Invalid LLM model selected"}`))
		})

		It("returns a generic 500 for an unknown role", func() {
			resp, body := doJSON(server, http.MethodPost, "/api/functions", `{
				"chat_history": [{"role": "system", "content": "hi"}]
			}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
			Expect(string(body)).To(MatchJSON(`{"error":"An error has occurred."}`))
			Expect(model.Calls()).To(BeEmpty())
		})
	})

	Describe("POST /api/suggestions", func() {
		It("returns follow-up questions", func() {
			model.Reply = "Sure!\n<suggestions>\nIs breakfast included?\n\nWhat about parking?\n</suggestions>"

			resp, body := doJSON(server, http.MethodPost, "/api/suggestions", `{
				"chat_history": [{"role": "user", "content": "Hotels in Paris?"}]
			}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(MatchJSON(`{"suggestions":["Is breakfast included?","What about parking?"]}`))

			calls := model.Calls()
			Expect(calls).To(HaveLen(1))
			Expect(calls[0].Params.Temperature).NotTo(BeNil())
			Expect(*calls[0].Params.Temperature).To(BeZero())
		})

		It("returns a generic 500 when the model fails", func() {
			model.Err = &llm.InvocationError{Provider: "openai", Model: "gpt-4o-mini", Err: errors.New("timeout")}

			resp, body := doJSON(server, http.MethodPost, "/api/suggestions", `{
				"chat_history": [{"role": "user", "content": "Hotels in Paris?"}]
			}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
			Expect(string(body)).To(MatchJSON(`{"error":"An error has occurred."}`))
		})

		It("loads history from a stored chat and records the result", func() {
			chat := createChat()

			resp, _ := doJSON(server, http.MethodPost, "/api/chats/"+chat.ID+"/messages", `{"role":"user","content":"Quiet hotel near the Louvre?"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			model.Reply = "<suggestions>\nWhat is your budget?\n</suggestions>"
			resp, body := doJSON(server, http.MethodPost, "/api/suggestions", `{"chat_id":"`+chat.ID+`"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(MatchJSON(`{"suggestions":["What is your budget?"]}`))
			Expect(model.LastPrompt()).To(ContainSubstring("User: Quiet hotel near the Louvre?"))

			Eventually(func() int {
				recs, err := driver.Suggestions(context.Background(), chat.ID)
				Expect(err).NotTo(HaveOccurred())
				return len(recs)
			}).Should(Equal(1))
		})

		It("returns 404 for an unknown chat", func() {
			resp, body := doJSON(server, http.MethodPost, "/api/suggestions", `{"chat_id":"missing"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
			Expect(string(body)).To(MatchJSON(`{"error":"chat not found"}`))
		})
	})

	Describe("chats", func() {
		It("creates, lists and reads a chat", func() {
			chat := createChat()
			Expect(chat.ID).NotTo(BeEmpty())
			Expect(chat.Title).To(Equal("Paris trip"))
			Expect(chat.FocusMode).To(Equal("hotels"))

			resp, body := doJSON(server, http.MethodGet, "/api/chats", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			var chats []storage.Chat
			Expect(json.Unmarshal(body, &chats)).To(Succeed())
			Expect(chats).To(HaveLen(1))

			resp, _ = doJSON(server, http.MethodPost, "/api/chats/"+chat.ID+"/messages", `{"role":"user","content":"hello"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
			resp, _ = doJSON(server, http.MethodPost, "/api/chats/"+chat.ID+"/messages", `{"role":"assistant","content":"hi"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			resp, body = doJSON(server, http.MethodGet, "/api/chats/"+chat.ID, "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out ChatResponse
			Expect(json.Unmarshal(body, &out)).To(Succeed())
			Expect(out.Chat.ID).To(Equal(chat.ID))
			Expect(out.Messages).To(HaveLen(2))
			Expect(out.Messages[0].Content).To(Equal("hello"))
			Expect(out.Messages[1].Role).To(Equal(llm.RoleAssistant))
			Expect(out.Suggestions).To(BeEmpty())
		})

		It("returns 404 for an unknown chat", func() {
			resp, _ := doJSON(server, http.MethodGet, "/api/chats/missing", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))

			resp, _ = doJSON(server, http.MethodPost, "/api/chats/missing/messages", `{"role":"user","content":"x"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("keeps stored messages intact across later requests on a live listener", func() {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			go func() { _ = server.app.Listener(ln) }()
			DeferCleanup(func() { _ = server.app.Shutdown() })

			base := "http://" + ln.Addr().String()
			client := &http.Client{Timeout: 5 * time.Second}
			post := func(path, body string) []byte {
				resp, err := client.Post(base+path, "application/json", strings.NewReader(body))
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
				data, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				return data
			}

			var first, second storage.Chat
			Expect(json.Unmarshal(post("/api/chats", `{"title":"first"}`), &first)).To(Succeed())
			Expect(json.Unmarshal(post("/api/chats", `{"title":"second"}`), &second)).To(Succeed())

			post("/api/chats/"+first.ID+"/messages", `{"role":"user","content":"hello"}`)
			for range 20 {
				post("/api/chats/"+second.ID+"/messages", `{"role":"user","content":"noise"}`)
			}

			msgs, err := driver.Messages(context.Background(), first.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].ChatID).To(Equal(first.ID))
			Expect(msgs[0].Content).To(Equal("hello"))

			msgs, err = driver.Messages(context.Background(), second.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(20))
		})

		It("rejects unknown roles", func() {
			chat := createChat()
			resp, body := doJSON(server, http.MethodPost, "/api/chats/"+chat.ID+"/messages", `{"role":"system","content":"x"}`)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(string(body)).To(ContainSubstring("role must be user or assistant"))
		})
	})
})
