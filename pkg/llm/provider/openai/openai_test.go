package openai_test

import (
	"context"
	"encoding/json"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/llm/provider/openai"
	"github.com/quorumchat/quorum/pkg/sse"
)

func decodeBody(body io.ReadCloser) map[string]any {
	raw, err := io.ReadAll(body)
	Expect(err).NotTo(HaveOccurred())

	var decoded map[string]any
	Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
	return decoded
}

var _ = Describe("OpenAI provider", func() {
	var prov *openai.Provider

	BeforeEach(func() {
		prov = openai.New("")
	})

	It("reports its name and env var", func() {
		Expect(prov.Name()).To(Equal("openai"))
		Expect(prov.EnvVar()).To(Equal("OPENAI_API_KEY"))
	})

	Describe("BuildRequest", func() {
		newRequest := func() *llm.ChatRequest {
			return &llm.ChatRequest{
				Model: "gpt-4o",
				Messages: []llm.Message{
					{Role: llm.RoleUser, Content: "hello"},
				},
			}
		}

		It("targets the production API by default", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "sk-test")
			Expect(err).NotTo(HaveOccurred())
			Expect(httpReq.URL.String()).To(Equal("https://api.openai.com/v1/chat/completions"))
		})

		It("honors an upstream override", func() {
			httpReq, err := openai.New("http://localhost:9999/v1/chat").BuildRequest(context.Background(), newRequest(), "sk-test")
			Expect(err).NotTo(HaveOccurred())
			Expect(httpReq.URL.String()).To(Equal("http://localhost:9999/v1/chat"))
		})

		It("authenticates with a bearer token", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "sk-test")
			Expect(err).NotTo(HaveOccurred())
			Expect(httpReq.Header.Get("Authorization")).To(Equal("Bearer sk-test"))
			Expect(httpReq.Header.Get("Content-Type")).To(Equal("application/json"))
		})

		It("injects the default system prompt as the first message", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "sk-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			messages := body["messages"].([]any)
			Expect(messages).To(HaveLen(2))

			first := messages[0].(map[string]any)
			Expect(first["role"]).To(Equal("system"))
			Expect(first["content"]).To(Equal(openai.DefaultSystemPrompt))
		})

		It("prefers the request's system prompt", func() {
			req := newRequest()
			req.SystemPrompt = "You are a pirate."

			httpReq, err := prov.BuildRequest(context.Background(), req, "sk-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			first := body["messages"].([]any)[0].(map[string]any)
			Expect(first["content"]).To(Equal("You are a pirate."))
		})

		It("always requests a stream", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "sk-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			Expect(body["stream"]).To(BeTrue())
		})

		It("applies default sampling parameters", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "sk-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			Expect(body["temperature"]).To(BeNumerically("==", llm.DefaultTemperature))
			Expect(body["max_tokens"]).To(BeNumerically("==", llm.DefaultMaxTokens))
		})

		It("omits sampling parameters for reasoning models", func() {
			req := newRequest()
			req.Model = "o3-mini"

			httpReq, err := prov.BuildRequest(context.Background(), req, "sk-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			Expect(body).NotTo(HaveKey("temperature"))
			Expect(body).NotTo(HaveKey("max_tokens"))
		})
	})

	Describe("ExtractDelta", func() {
		It("extracts the delta content", func() {
			delta, err := prov.ExtractDelta(sse.Event{
				Data: `{"choices":[{"delta":{"content":"Hello"}}]}`,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(Equal("Hello"))
		})

		It("signals a clean stop on the [DONE] sentinel", func() {
			_, err := prov.ExtractDelta(sse.Event{Data: "[DONE]"})
			Expect(err).To(MatchError(llm.ErrStreamDone))
		})

		It("yields nothing for role preludes", func() {
			delta, err := prov.ExtractDelta(sse.Event{
				Data: `{"choices":[{"delta":{"role":"assistant"}}]}`,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(BeEmpty())
		})

		It("yields nothing when choices are empty", func() {
			delta, err := prov.ExtractDelta(sse.Event{Data: `{"choices":[]}`})
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(BeEmpty())
		})

		It("errors on malformed payloads", func() {
			_, err := prov.ExtractDelta(sse.Event{Data: `{"choices":`})
			Expect(err).To(HaveOccurred())
		})
	})
})
