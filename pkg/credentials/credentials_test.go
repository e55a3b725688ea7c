package credentials_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quorumchat/quorum/pkg/credentials"
)

var _ = Describe("Manager", func() {
	var mgr *credentials.Manager

	BeforeEach(func() {
		var err error
		mgr, err = credentials.NewManager(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns empty credentials when no file exists", func() {
		creds, err := mgr.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(creds.Providers).To(BeEmpty())
	})

	It("round-trips stored keys", func() {
		Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())

		key, err := mgr.GetKey("openai")
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(Equal("sk-test"))
	})

	It("returns an empty key for providers without credentials", func() {
		key, err := mgr.GetKey("xai")
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(BeEmpty())
	})

	It("removes stored keys", func() {
		Expect(mgr.SetKey("anthropic", "sk-ant-test")).To(Succeed())
		Expect(mgr.RemoveKey("anthropic")).To(Succeed())

		key, err := mgr.GetKey("anthropic")
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(BeEmpty())
	})

	It("lists providers in sorted order", func() {
		Expect(mgr.SetKey("xai", "xai-key")).To(Succeed())
		Expect(mgr.SetKey("anthropic", "ant-key")).To(Succeed())

		providers, err := mgr.ListProviders()
		Expect(err).NotTo(HaveOccurred())
		Expect(providers).To(Equal([]string{"anthropic", "xai"}))
	})
})

var _ = Describe("Provider metadata", func() {
	It("maps providers to env vars", func() {
		Expect(credentials.EnvVarForProvider("openai")).To(Equal("OPENAI_API_KEY"))
		Expect(credentials.EnvVarForProvider("anthropic")).To(Equal("ANTHROPIC_API_KEY"))
		Expect(credentials.EnvVarForProvider("xai")).To(Equal("XAI_API_KEY"))
		Expect(credentials.EnvVarForProvider("mystery")).To(BeEmpty())
	})

	It("knows the supported provider set", func() {
		Expect(credentials.IsSupportedProvider("xai")).To(BeTrue())
		Expect(credentials.IsSupportedProvider("ollama")).To(BeFalse())
	})
})
