package mcp

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/logger"
	testutils "github.com/reelstack/reelqa/pkg/utils/test"
	"github.com/reelstack/reelqa/pkg/vector/exhaustive"
)

// stubAsker returns a canned answer or error.
type stubAsker struct {
	answer string
	err    error
}

func (s *stubAsker) Invoke(_ context.Context, _ string) (string, error) {
	return s.answer, s.err
}

var _ = Describe("Search tool", func() {
	var (
		server   *Server
		index    *exhaustive.Index
		embedder *testutils.MockEmbedder
		ctx      context.Context
	)

	BeforeEach(func() {
		index = exhaustive.New(nil)
		embedder = testutils.NewMockEmbedder()
		ctx = context.Background()

		embedder.Embeddings["The sky is blue."] = []float32{1, 0, 0}
		embedder.Embeddings["Water is wet."] = []float32{0, 1, 0}
		embedder.Embeddings["sky"] = []float32{0.9, 0.1, 0}

		for i, text := range []string{"The sky is blue.", "Water is wet."} {
			vec, err := embedder.Embed(ctx, text)
			Expect(err).NotTo(HaveOccurred())
			_, err = index.Insert(ctx, vec, chunk.Chunk{Text: text, Ordinal: i})
			Expect(err).NotTo(HaveOccurred())
		}

		var err error
		server, err = NewServer(Config{
			Embedder: embedder,
			Index:    index,
			Asker:    &stubAsker{answer: "The sky is blue."},
			Logger:   logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("handleSearch", func() {
		It("returns matching chunks with serialized JSON content", func() {
			result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "sky", TopK: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(output.Count).To(Equal(1))
			Expect(output.Results[0].Text).To(Equal("The sky is blue."))
			Expect(result.Content).To(HaveLen(1))
		})

		It("defaults top_k when unset", func() {
			_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "sky"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(2))
		})

		It("reports embedding failures as tool errors", func() {
			embedder.FailOn = "sky"

			result, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "sky"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})

	Describe("handleAsk", func() {
		It("returns the generated answer", func() {
			result, output, err := server.handleAsk(ctx, nil, AskInput{Question: "What color is the sky?"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Answer).To(Equal("The sky is blue."))
		})

		It("rejects an empty question", func() {
			result, _, err := server.handleAsk(ctx, nil, AskInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})

		It("reports answer failures as tool errors", func() {
			server.config.Asker = &stubAsker{err: errors.New("no index")}

			result, _, err := server.handleAsk(ctx, nil, AskInput{Question: "What color is the sky?"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})
})
