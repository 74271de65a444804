package eventstream_test

import (
	"encoding/json"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelstack/reelqa/pkg/eventstream"
)

var _ = Describe("Event", func() {
	It("marshals DocumentIndexedEvent with expected top-level keys", func() {
		now := time.Unix(1735689600, 0).UTC()
		event := eventstream.DocumentIndexedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeDocumentIndexed,
			EventID:       eventstream.NewEventID(),
			EmittedAt:     now,
			VideoID:       "vid123",
			ChunkCount:    42,
			Dimensions:    768,
			DurationMs:    1500,
		}

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("video_id"))
		Expect(got).To(HaveKey("chunk_count"))
		Expect(got).To(HaveKey("dimensions"))
	})

	It("marshals AnswerGeneratedEvent with expected top-level keys", func() {
		event := eventstream.AnswerGeneratedEvent{
			SchemaVersion:   eventstream.SchemaVersionV1,
			EventType:       eventstream.EventTypeAnswerGenerated,
			EventID:         eventstream.NewEventID(),
			EmittedAt:       time.Now().UTC(),
			Question:        "What color is the sky?",
			Answer:          "The sky is blue.",
			RetrievedChunks: 4,
		}

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("question"))
		Expect(got).To(HaveKey("answer"))
		Expect(got).To(HaveKey("retrieved_chunks"))
	})

	It("defines stable event constants", func() {
		Expect(eventstream.SchemaVersionV1).To(BeNumerically(">", 0))
		Expect(eventstream.EventTypeDocumentIndexed).To(Equal("reelqa.document.indexed"))
		Expect(eventstream.EventTypeAnswerGenerated).To(Equal("reelqa.answer.generated"))
	})

	It("generates unique prefixed event IDs", func() {
		a := eventstream.NewEventID()
		b := eventstream.NewEventID()
		Expect(strings.HasPrefix(a, "evt_")).To(BeTrue())
		Expect(a).NotTo(Equal(b))
	})

	It("provides ErrNilEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilEvent).NotTo(BeNil())
		Expect(eventstream.ErrNilEvent).To(MatchError("nil event"))
	})
})
