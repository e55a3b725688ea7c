package xai_test

import (
	"context"
	"encoding/json"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/llm/provider/xai"
	"github.com/quorumchat/quorum/pkg/sse"
)

func decodeBody(body io.ReadCloser) map[string]any {
	raw, err := io.ReadAll(body)
	Expect(err).NotTo(HaveOccurred())

	var decoded map[string]any
	Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
	return decoded
}

var _ = Describe("xAI provider", func() {
	var prov *xai.Provider

	BeforeEach(func() {
		prov = xai.New("")
	})

	It("reports its name and env var", func() {
		Expect(prov.Name()).To(Equal("xai"))
		Expect(prov.EnvVar()).To(Equal("XAI_API_KEY"))
	})

	Describe("BuildRequest", func() {
		newRequest := func() *llm.ChatRequest {
			return &llm.ChatRequest{
				Model: "grok-2-latest",
				Messages: []llm.Message{
					{Role: llm.RoleUser, Content: "hello"},
				},
			}
		}

		It("targets the xAI API with a bearer token", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "xai-test")
			Expect(err).NotTo(HaveOccurred())
			Expect(httpReq.URL.String()).To(Equal("https://api.x.ai/v1/chat/completions"))
			Expect(httpReq.Header.Get("Authorization")).To(Equal("Bearer xai-test"))
		})

		It("injects the Grok persona as the default system prompt", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "xai-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			first := body["messages"].([]any)[0].(map[string]any)
			Expect(first["role"]).To(Equal("system"))
			Expect(first["content"]).To(Equal(xai.DefaultSystemPrompt))
		})

		It("always sends sampling parameters and stream", func() {
			httpReq, err := prov.BuildRequest(context.Background(), newRequest(), "xai-test")
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody(httpReq.Body)
			Expect(body["stream"]).To(BeTrue())
			Expect(body["temperature"]).To(BeNumerically("==", llm.DefaultTemperature))
			Expect(body["max_tokens"]).To(BeNumerically("==", llm.DefaultMaxTokens))
		})
	})

	Describe("ExtractDelta", func() {
		It("extracts the delta content", func() {
			delta, err := prov.ExtractDelta(sse.Event{
				Data: `{"choices":[{"delta":{"content":"42"}}]}`,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(Equal("42"))
		})

		It("signals a clean stop on the [DONE] sentinel", func() {
			_, err := prov.ExtractDelta(sse.Event{Data: "[DONE]"})
			Expect(err).To(MatchError(llm.ErrStreamDone))
		})

		It("errors on malformed payloads", func() {
			_, err := prov.ExtractDelta(sse.Event{Data: `not json`})
			Expect(err).To(HaveOccurred())
		})
	})
})
