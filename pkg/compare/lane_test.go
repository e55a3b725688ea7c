package compare_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quorumchat/quorum/pkg/compare"
)

var _ = Describe("Lane", func() {
	It("starts pending and moves to streaming on the first delta", func() {
		lane := compare.NewLane("gpt-4o", "openai")
		Expect(lane.State()).To(Equal(compare.StatePending))

		lane.ApplyDelta("hello")
		Expect(lane.State()).To(Equal(compare.StateStreaming))
		Expect(lane.Text()).To(Equal("hello"))
	})

	It("accumulates deltas in order", func() {
		lane := compare.NewLane("gpt-4o", "openai")
		lane.ApplyDelta("one ")
		lane.ApplyDelta("two ")
		lane.ApplyDelta("three")
		Expect(lane.Text()).To(Equal("one two three"))
	})

	It("settles as done and drops late deltas", func() {
		lane := compare.NewLane("gpt-4o", "openai")
		lane.ApplyDelta("final")
		lane.Complete()
		lane.ApplyDelta(" straggler")

		Expect(lane.State()).To(Equal(compare.StateDone))
		Expect(lane.Text()).To(Equal("final"))
	})

	It("replaces partial text with the placeholder on failure", func() {
		lane := compare.NewLane("gpt-4o", "openai")
		lane.ApplyDelta("partial resp")
		lane.Fail(errors.New("upstream reset"))

		Expect(lane.State()).To(Equal(compare.StateFailed))
		Expect(lane.Text()).To(Equal(compare.FailurePlaceholder))
		Expect(lane.Err()).To(MatchError("upstream reset"))
	})

	It("does not fail a lane that already completed", func() {
		lane := compare.NewLane("gpt-4o", "openai")
		lane.ApplyDelta("done text")
		lane.Complete()
		lane.Fail(errors.New("too late"))

		Expect(lane.State()).To(Equal(compare.StateDone))
		Expect(lane.Text()).To(Equal("done text"))
	})
})
