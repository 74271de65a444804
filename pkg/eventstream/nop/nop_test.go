package nop_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelstack/reelqa/pkg/eventstream"
	"github.com/reelstack/reelqa/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	It("creates a non-nil publisher", func() {
		p := nop.NewPublisher()
		Expect(p).NotTo(BeNil())
	})

	It("returns ErrNilEvent for nil events", func() {
		p := nop.NewPublisher()
		Expect(p.PublishDocumentIndexed(context.Background(), nil)).To(MatchError(eventstream.ErrNilEvent))
		Expect(p.PublishAnswerGenerated(context.Background(), nil)).To(MatchError(eventstream.ErrNilEvent))
	})

	It("succeeds for non-nil events", func() {
		p := nop.NewPublisher()
		Expect(p.PublishDocumentIndexed(context.Background(), &eventstream.DocumentIndexedEvent{})).To(Succeed())
		Expect(p.PublishAnswerGenerated(context.Background(), &eventstream.AnswerGeneratedEvent{})).To(Succeed())
	})

	It("closes successfully", func() {
		p := nop.NewPublisher()
		Expect(p.Close()).To(Succeed())
	})
})
