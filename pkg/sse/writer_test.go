package sse

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WriteContent", func() {
	It("frames a delta as a data event with a blank-line terminator", func() {
		var buf bytes.Buffer

		Expect(WriteContent(&buf, "Hello")).To(Succeed())
		Expect(buf.String()).To(Equal("data: {\"content\":\"Hello\"}\n\n"))
	})

	It("escapes newlines inside the delta so framing survives", func() {
		var buf bytes.Buffer

		Expect(WriteContent(&buf, "line one\nline two")).To(Succeed())
		Expect(buf.String()).To(Equal("data: {\"content\":\"line one\\nline two\"}\n\n"))
	})

	It("round-trips through the reader", func() {
		var buf bytes.Buffer
		Expect(WriteContent(&buf, "first")).To(Succeed())
		Expect(WriteContent(&buf, " second")).To(Succeed())

		r := NewReader(strings.NewReader(buf.String()))

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal(`{"content":"first"}`))

		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal(`{"content":" second"}`))
	})
})
