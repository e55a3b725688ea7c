package anthropic_test

import (
	"context"
	"encoding/json"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/llm/provider/anthropic"
	"github.com/quorumchat/quorum/pkg/sse"
)

func decodeBody(body io.ReadCloser) map[string]any {
	raw, err := io.ReadAll(body)
	Expect(err).NotTo(HaveOccurred())

	var decoded map[string]any
	Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
	return decoded
}

var _ = Describe("Anthropic provider", func() {
	var prov *anthropic.Provider

	BeforeEach(func() {
		prov = anthropic.New("")
	})

	It("reports its name and env var", func() {
		Expect(prov.Name()).To(Equal("anthropic"))
		Expect(prov.EnvVar()).To(Equal("ANTHROPIC_API_KEY"))
	})

	Describe("BuildRequest", func() {
		newRequest := func() *llm.ChatRequest {
			return &llm.ChatRequest{
				Model: "claude-3-5-sonnet-20241022",
				Messages: []llm.Message{
					{Role: llm.RoleUser, Content: "hello"},
				},
			}
		}

		It("targets the Messages API with version and key headers", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "sk-ant-test")
			Expect(err).NotTo(HaveOccurred())
			Expect(httpReq.URL.String()).To(Equal("https://api.anthropic.com/v1/messages"))
			Expect(httpReq.Header.Get("x-api-key")).To(Equal("sk-ant-test"))
			Expect(httpReq.Header.Get("anthropic-version")).To(Equal("2023-06-01"))
			Expect(httpReq.Header.Get("Authorization")).To(BeEmpty())
		})

		It("carries the system prompt as a top-level field", func() {
			req := newRequest()
			req.SystemPrompt = "You are terse."

			httpReq, err := prov.BuildRequest(context.Background(), req, "sk-ant-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			Expect(body["system"]).To(Equal("You are terse."))

			messages := body["messages"].([]any)
			Expect(messages).To(HaveLen(1))
			first := messages[0].(map[string]any)
			Expect(first["role"]).To(Equal("user"))
		})

		It("omits the system field when no prompt is set", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "sk-ant-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			Expect(body).NotTo(HaveKey("system"))
		})

		It("always sends max_tokens and temperature", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "sk-ant-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			Expect(body["max_tokens"]).To(BeNumerically("==", llm.DefaultMaxTokens))
			Expect(body["temperature"]).To(BeNumerically("==", llm.DefaultTemperature))
			Expect(body["stream"]).To(BeTrue())
		})
	})

	Describe("ExtractDelta", func() {
		It("extracts text from content_block_delta events", func() {
			delta, err := prov.ExtractDelta(sse.Event{
				Type: "content_block_delta",
				Data: `{"type":"content_block_delta","delta":{"type":"text_delta","text":"Hi"}}`,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(Equal("Hi"))
		})

		It("signals a clean stop on message_stop", func() {
			_, err := prov.ExtractDelta(sse.Event{
				Type: "message_stop",
				Data: `{"type":"message_stop"}`,
			})
			Expect(err).To(MatchError(llm.ErrStreamDone))
		})

		It("yields nothing for pings", func() {
			delta, err := prov.ExtractDelta(sse.Event{Type: "ping", Data: `{"type":"ping"}`})
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(BeEmpty())
		})

		It("yields nothing for message_start metadata", func() {
			delta, err := prov.ExtractDelta(sse.Event{
				Type: "message_start",
				Data: `{"type":"message_start","message":{"role":"assistant"}}`,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(BeEmpty())
		})

		It("yields nothing for non-text deltas", func() {
			delta, err := prov.ExtractDelta(sse.Event{
				Type: "content_block_delta",
				Data: `{"type":"content_block_delta","delta":{"type":"input_json_delta","partial_json":"{"}}`,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(BeEmpty())
		})

		It("errors on malformed payloads", func() {
			_, err := prov.ExtractDelta(sse.Event{
				Type: "content_block_delta",
				Data: `{"delta":`,
			})
			Expect(err).To(HaveOccurred())
		})
	})
})
