package llm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quorumchat/quorum/pkg/llm"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

var _ = Describe("ChatRequest", func() {
	newValidRequest := func() *llm.ChatRequest {
		return &llm.ChatRequest{
			Model: "gpt-4o",
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: "hello"},
			},
		}
	}

	Describe("Validate", func() {
		It("accepts a minimal valid request", func() {
			Expect(newValidRequest().Validate()).To(Succeed())
		})

		It("accepts an alternating conversation", func() {
			req := newValidRequest()
			req.Messages = []llm.Message{
				{Role: llm.RoleUser, Content: "hi"},
				{Role: llm.RoleAssistant, Content: "hello"},
				{Role: llm.RoleUser, Content: "how are you"},
			}
			Expect(req.Validate()).To(Succeed())
		})

		It("rejects a missing model", func() {
			req := newValidRequest()
			req.Model = ""
			Expect(req.Validate()).To(MatchError("missing model parameter"))
		})

		It("rejects empty messages", func() {
			req := newValidRequest()
			req.Messages = nil
			Expect(req.Validate()).To(MatchError("messages must be a non-empty array"))
		})

		It("rejects a conversation not opened by the user", func() {
			req := newValidRequest()
			req.Messages = []llm.Message{{Role: llm.RoleAssistant, Content: "hi"}}
			Expect(req.Validate()).To(MatchError("first message must be from user"))
		})

		It("rejects unknown roles", func() {
			req := newValidRequest()
			req.Messages = append(req.Messages, llm.Message{Role: "system", Content: "sneaky"})
			Expect(req.Validate()).To(MatchError(`message 1 has invalid role "system"`))
		})

		It("rejects out-of-bounds temperature", func() {
			req := newValidRequest()
			req.Temperature = floatPtr(5)
			Expect(req.Validate()).To(MatchError("temperature must be between 0 and 2"))
		})

		It("accepts boundary temperatures", func() {
			req := newValidRequest()
			req.Temperature = floatPtr(0)
			Expect(req.Validate()).To(Succeed())
			req.Temperature = floatPtr(2)
			Expect(req.Validate()).To(Succeed())
		})

		It("rejects out-of-bounds maxTokens", func() {
			req := newValidRequest()
			req.MaxTokens = intPtr(0)
			Expect(req.Validate()).To(MatchError("maxTokens must be between 1 and 4000"))

			req.MaxTokens = intPtr(4001)
			Expect(req.Validate()).To(MatchError("maxTokens must be between 1 and 4000"))
		})
	})

	Describe("defaults", func() {
		It("falls back to default generation parameters", func() {
			req := newValidRequest()
			Expect(req.TemperatureOrDefault()).To(Equal(llm.DefaultTemperature))
			Expect(req.MaxTokensOrDefault()).To(Equal(llm.DefaultMaxTokens))
		})

		It("prefers explicit generation parameters", func() {
			req := newValidRequest()
			req.Temperature = floatPtr(1.3)
			req.MaxTokens = intPtr(512)
			Expect(req.TemperatureOrDefault()).To(Equal(1.3))
			Expect(req.MaxTokensOrDefault()).To(Equal(512))
		})
	})
})

var _ = Describe("Model catalog", func() {
	It("resolves known models to their providers", func() {
		info, ok := llm.ModelByID("claude-3-5-sonnet-20241022")
		Expect(ok).To(BeTrue())
		Expect(info.Provider).To(Equal("anthropic"))

		info, ok = llm.ModelByID("grok-2-latest")
		Expect(ok).To(BeTrue())
		Expect(info.Provider).To(Equal("xai"))
	})

	It("misses unknown models", func() {
		_, ok := llm.ModelByID("gpt-99")
		Expect(ok).To(BeFalse())
	})

	It("classifies reasoning models by id prefix", func() {
		Expect(llm.IsReasoningModel("o1-preview")).To(BeTrue())
		Expect(llm.IsReasoningModel("o3-mini")).To(BeTrue())
		Expect(llm.IsReasoningModel("gpt-4o")).To(BeFalse())
		Expect(llm.IsReasoningModel("grok-2-latest")).To(BeFalse())
	})
})
