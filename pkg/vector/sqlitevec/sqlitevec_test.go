package sqlitevec_test

import (
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/vector"
	"github.com/reelstack/reelqa/pkg/vector/sqlitevec"
)

var _ = Describe("Index", func() {
	var (
		logger *slog.Logger
		ctx    context.Context
	)

	BeforeEach(func() {
		logger = slog.New(slog.DiscardHandler)
		ctx = context.Background()
	})

	newIndex := func(dims uint) *sqlitevec.Index {
		idx, err := sqlitevec.New(sqlitevec.Config{Dimensions: dims}, logger)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = idx.Close() })
		return idx
	}

	Describe("New", func() {
		It("defaults to an in-memory database", func() {
			idx, err := sqlitevec.New(sqlitevec.Config{Dimensions: 4}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(idx.Close()).To(Succeed())
		})

		It("errors when dimensions are not specified", func() {
			_, err := sqlitevec.New(sqlitevec.Config{}, logger)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Interface compliance", func() {
		It("implements vector.Index", func() {
			var _ vector.Index = (*sqlitevec.Index)(nil)
		})
	})

	Describe("Insert and Query", func() {
		It("round-trips an inserted vector as the top hit", func() {
			idx := newIndex(3)

			_, err := idx.Insert(ctx, []float32{1, 0, 0}, chunk.Chunk{Text: "target", Ordinal: 0})
			Expect(err).NotTo(HaveOccurred())
			_, err = idx.Insert(ctx, []float32{0, 1, 0}, chunk.Chunk{Text: "other", Ordinal: 1})
			Expect(err).NotTo(HaveOccurred())

			results, err := idx.Query(ctx, []float32{1, 0, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Payload.Text).To(Equal("target"))
			Expect(results[0].Score).To(BeNumerically(">", results[1].Score))
		})

		It("assigns monotonically increasing IDs", func() {
			idx := newIndex(2)

			id1, err := idx.Insert(ctx, []float32{1, 0}, chunk.Chunk{Text: "a"})
			Expect(err).NotTo(HaveOccurred())
			id2, err := idx.Insert(ctx, []float32{0, 1}, chunk.Chunk{Text: "b"})
			Expect(err).NotTo(HaveOccurred())
			Expect(id2).To(BeNumerically(">", id1))
		})

		It("rejects mismatched insert dimensions", func() {
			idx := newIndex(3)

			_, err := idx.Insert(ctx, []float32{1, 0}, chunk.Chunk{Text: "a"})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("rejects mismatched query dimensions", func() {
			idx := newIndex(3)

			_, err := idx.Query(ctx, []float32{1, 0}, 1)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("returns empty results on an empty index", func() {
			idx := newIndex(3)

			results, err := idx.Query(ctx, []float32{1, 0, 0}, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("preserves chunk payloads", func() {
			idx := newIndex(2)

			in := chunk.Chunk{Text: "payload text", Ordinal: 7, SourceOffset: 42}
			_, err := idx.Insert(ctx, []float32{1, 1}, in)
			Expect(err).NotTo(HaveOccurred())

			results, err := idx.Query(ctx, []float32{1, 1}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Payload).To(Equal(in))
		})
	})

	Describe("InsertBatch", func() {
		It("inserts nothing when any vector dimension mismatches", func() {
			idx := newIndex(2)

			_, err := idx.InsertBatch(ctx,
				[][]float32{{1, 0}, {1, 0, 0}},
				[]chunk.Chunk{{Text: "a"}, {Text: "b"}},
			)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))

			count, err := idx.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("Clear", func() {
		It("removes all entries", func() {
			idx := newIndex(2)

			_, err := idx.InsertBatch(ctx,
				[][]float32{{1, 0}, {0, 1}},
				[]chunk.Chunk{{Text: "a"}, {Text: "b"}},
			)
			Expect(err).NotTo(HaveOccurred())

			Expect(idx.Clear(ctx)).To(Succeed())

			count, err := idx.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})
})
