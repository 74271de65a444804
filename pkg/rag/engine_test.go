package rag_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/generation"
	"github.com/reelstack/reelqa/pkg/pipeline"
	"github.com/reelstack/reelqa/pkg/rag"
	testutils "github.com/reelstack/reelqa/pkg/utils/test"
	"github.com/reelstack/reelqa/pkg/vector/exhaustive"
)

const skyDoc = "The sky is blue. Water is wet."

// skyEmbedder returns a mock embedder whose vectors place the query "What
// color is the sky?" nearest the chunk mentioning the sky.
func skyEmbedder() *testutils.MockEmbedder {
	emb := testutils.NewMockEmbedder()
	emb.Dim = 3

	chunks, err := chunk.Split(skyDoc, 20, 5)
	Expect(err).NotTo(HaveOccurred())
	for _, c := range chunks {
		if strings.Contains(c.Text, "sky") {
			emb.Embeddings[c.Text] = []float32{1, 0, 0}
		} else {
			emb.Embeddings[c.Text] = []float32{0, 1, 0}
		}
	}
	emb.Embeddings["What color is the sky?"] = []float32{0.9, 0.1, 0}
	return emb
}

var _ = Describe("Engine", func() {
	var (
		ctx    context.Context
		emb    *testutils.MockEmbedder
		gen    *testutils.MockGenerator
		src    *testutils.MockSource
		pub    *testutils.RecordingPublisher
		engine *rag.Engine
	)

	BeforeEach(func() {
		ctx = context.Background()
		emb = skyEmbedder()
		gen = testutils.NewMockGenerator("The sky is blue.")
		src = testutils.NewMockSource()
		src.Transcripts["vid123"] = skyDoc
		pub = testutils.NewRecordingPublisher()

		var err error
		engine, err = rag.NewEngine(rag.EngineConfig{
			Embedder:     emb,
			Index:        exhaustive.New(nil),
			Generator:    gen,
			Source:       src,
			Publisher:    pub,
			ChunkSize:    20,
			ChunkOverlap: 5,
			TopK:         1,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("requires an embedder, index, and generator", func() {
			_, err := rag.NewEngine(rag.EngineConfig{})
			Expect(err).To(HaveOccurred())
		})

		It("rejects invalid chunking parameters", func() {
			_, err := rag.NewEngine(rag.EngineConfig{
				Embedder:     emb,
				Index:        exhaustive.New(nil),
				Generator:    gen,
				ChunkSize:    10,
				ChunkOverlap: 10,
			})
			Expect(err).To(MatchError(chunk.ErrInvalidConfig))
		})
	})

	Describe("IndexVideo", func() {
		It("chunks, embeds, and indexes the transcript", func() {
			n, ok, err := engine.IndexVideo(ctx, "vid123")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(n).To(BeNumerically(">", 0))

			count, err := engine.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(n))
		})

		It("emits a document-indexed event", func() {
			n, _, err := engine.IndexVideo(ctx, "vid123")
			Expect(err).NotTo(HaveOccurred())

			events := pub.Indexed()
			Expect(events).To(HaveLen(1))
			Expect(events[0].VideoID).To(Equal("vid123"))
			Expect(events[0].ChunkCount).To(Equal(n))
		})

		It("short-circuits without touching the embedder when the transcript is unavailable", func() {
			n, ok, err := engine.IndexVideo(ctx, "no-captions")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(n).To(BeZero())
			Expect(emb.Calls.Load()).To(BeZero())

			count, err := engine.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("propagates transcript fetch failures", func() {
			src.FailOn = "broken"
			_, _, err := engine.IndexVideo(ctx, "broken")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Invoke", func() {
		BeforeEach(func() {
			_, _, err := engine.IndexVideo(ctx, "vid123")
			Expect(err).NotTo(HaveOccurred())
		})

		It("answers with retrieved context in the prompt", func() {
			answer, err := engine.Invoke(ctx, "What color is the sky?")
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("The sky is blue."))

			prompts := gen.Prompts()
			Expect(prompts).To(HaveLen(1))
			Expect(prompts[0]).To(ContainSubstring("The sky is blue"))
			Expect(prompts[0]).To(ContainSubstring("What color is the sky?"))
		})

		It("emits an answer-generated event", func() {
			_, err := engine.Invoke(ctx, "What color is the sky?")
			Expect(err).NotTo(HaveOccurred())

			events := pub.Answered()
			Expect(events).To(HaveLen(1))
			Expect(events[0].Question).To(Equal("What color is the sky?"))
			Expect(events[0].Answer).To(Equal("The sky is blue."))
		})

		It("propagates generation failures", func() {
			gen.Fail = true
			_, err := engine.Invoke(ctx, "What color is the sky?")
			Expect(err).To(MatchError(generation.ErrGeneration))
		})
	})

	Describe("InvokeStream", func() {
		BeforeEach(func() {
			_, _, err := engine.IndexVideo(ctx, "vid123")
			Expect(err).NotTo(HaveOccurred())
		})

		It("delivers the answer through the delta callback", func() {
			var streamed strings.Builder
			answer, err := engine.InvokeStream(ctx, "What color is the sky?", func(delta string) {
				streamed.WriteString(delta)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("The sky is blue."))
			Expect(streamed.String()).To(Equal("The sky is blue."))
		})

		It("tolerates a nil callback", func() {
			answer, err := engine.InvokeStream(ctx, "What color is the sky?", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("The sky is blue."))
		})

		It("emits an answer-generated event", func() {
			_, err := engine.InvokeStream(ctx, "What color is the sky?", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(pub.Answered()).To(HaveLen(1))
		})

		It("propagates generation failures", func() {
			gen.Fail = true
			_, err := engine.InvokeStream(ctx, "What color is the sky?", nil)
			Expect(err).To(MatchError(generation.ErrGeneration))
		})
	})

	Describe("InvokeK", func() {
		BeforeEach(func() {
			_, _, err := engine.IndexVideo(ctx, "vid123")
			Expect(err).NotTo(HaveOccurred())
		})

		It("retrieves k chunks instead of the configured default", func() {
			answer, err := engine.InvokeK(ctx, "What color is the sky?", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("The sky is blue."))

			events := pub.Answered()
			Expect(events).To(HaveLen(1))
			Expect(events[0].RetrievedChunks).To(Equal(2))
		})

		It("falls back to the configured k when non-positive", func() {
			_, err := engine.InvokeK(ctx, "What color is the sky?", 0)
			Expect(err).NotTo(HaveOccurred())

			events := pub.Answered()
			Expect(events).To(HaveLen(1))
			Expect(events[0].RetrievedChunks).To(Equal(1))
		})
	})

	Describe("Search", func() {
		It("returns the sky chunk first for a sky question", func() {
			_, _, err := engine.IndexVideo(ctx, "vid123")
			Expect(err).NotTo(HaveOccurred())

			results, err := engine.Search(ctx, "What color is the sky?", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Payload.Text).To(ContainSubstring("The sky is blue"))
		})
	})

	Describe("Clear", func() {
		It("empties the index", func() {
			_, _, err := engine.IndexVideo(ctx, "vid123")
			Expect(err).NotTo(HaveOccurred())

			Expect(engine.Clear(ctx)).To(Succeed())
			count, err := engine.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("Graph", func() {
		It("exposes the composed pipeline structure", func() {
			g := engine.Graph()
			Expect(g.Nodes).NotTo(BeEmpty())

			labels := make([]string, 0, len(g.Nodes))
			for _, n := range g.Nodes {
				labels = append(labels, n.Label)
			}
			Expect(labels).To(ContainElement("retriever"))
			Expect(labels).To(ContainElement("prompt_builder"))
			Expect(labels).To(ContainElement("generator"))
			Expect(labels).To(ContainElement("output_parser"))

			var joins int
			for _, n := range g.Nodes {
				if n.Kind == pipeline.KindInput {
					joins++
				}
			}
			Expect(joins).To(Equal(1))
		})

		It("reports the declared shape of each stage", func() {
			shapes := make(map[string][2]string)
			for _, n := range engine.Graph().Nodes {
				shapes[n.Label] = [2]string{n.In, n.Out}
			}
			Expect(shapes["retriever"]).To(Equal([2]string{"string", "[]chunk.Chunk"}))
			Expect(shapes["format_context"]).To(Equal([2]string{"[]chunk.Chunk", "string"}))
			Expect(shapes["prompt_builder"]).To(Equal([2]string{"pipeline.Bundle", "string"}))
			Expect(shapes["generator"]).To(Equal([2]string{"string", "*generation.Response"}))
			Expect(shapes["output_parser"]).To(Equal([2]string{"*generation.Response", "string"}))
		})

		It("renders without error", func() {
			out := engine.Graph().Render()
			Expect(out).To(ContainSubstring("retriever"))
			Expect(out).To(ContainSubstring("fan out"))
		})
	})
})
