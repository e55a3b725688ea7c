package credentials_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quorumchat/quorum/pkg/credentials"
)

var _ = Describe("Resolver", func() {
	var (
		mgr *credentials.Manager
		env map[string]string
	)

	newResolver := func() *credentials.Resolver {
		return credentials.NewResolver(mgr).WithEnvLookup(func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		})
	}

	BeforeEach(func() {
		var err error
		mgr, err = credentials.NewManager(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		env = map[string]string{}
	})

	It("returns an empty key when no source has one", func() {
		Expect(newResolver().Resolve("openai", "")).To(BeEmpty())
	})

	It("returns an empty key for unknown providers", func() {
		env["OPENAI_API_KEY"] = "sk-env"
		Expect(newResolver().Resolve("mystery", "")).To(BeEmpty())
	})

	It("resolves from the environment first", func() {
		env["OPENAI_API_KEY"] = "sk-env"
		Expect(mgr.SetKey("openai", "sk-file")).To(Succeed())
		header := `{"OPENAI_API_KEY":"sk-header"}`

		Expect(newResolver().Resolve("openai", header)).To(Equal("sk-env"))
	})

	It("falls back to stored credentials", func() {
		Expect(mgr.SetKey("openai", "sk-file")).To(Succeed())
		header := `{"OPENAI_API_KEY":"sk-header"}`

		Expect(newResolver().Resolve("openai", header)).To(Equal("sk-file"))
	})

	It("falls back to the request header last", func() {
		header := `{"OPENAI_API_KEY":"sk-header","XAI_API_KEY":"xai-header"}`

		r := newResolver()
		Expect(r.Resolve("openai", header)).To(Equal("sk-header"))
		Expect(r.Resolve("xai", header)).To(Equal("xai-header"))
	})

	It("treats malformed header JSON as absent", func() {
		Expect(newResolver().Resolve("openai", `{"OPENAI_API_KEY":`)).To(BeEmpty())
	})

	It("ignores empty environment values", func() {
		env["ANTHROPIC_API_KEY"] = ""
		Expect(mgr.SetKey("anthropic", "sk-file")).To(Succeed())

		Expect(newResolver().Resolve("anthropic", "")).To(Equal("sk-file"))
	})
})
