package exhaustive

import (
	"context"
	"log/slog"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/vector"
)

var _ = Describe("Index", func() {
	var (
		idx *Index
		ctx context.Context
	)

	BeforeEach(func() {
		idx = New(slog.New(slog.DiscardHandler))
		ctx = context.Background()
	})

	payload := func(ordinal int, text string) chunk.Chunk {
		return chunk.Chunk{Text: text, Ordinal: ordinal}
	}

	Describe("Insert", func() {
		It("assigns monotonic IDs starting at zero", func() {
			id0, err := idx.Insert(ctx, []float32{1, 0, 0}, payload(0, "a"))
			Expect(err).NotTo(HaveOccurred())
			id1, err := idx.Insert(ctx, []float32{0, 1, 0}, payload(1, "b"))
			Expect(err).NotTo(HaveOccurred())

			Expect(id0).To(Equal(int64(0)))
			Expect(id1).To(Equal(int64(1)))
		})

		It("establishes dimensionality from the first insertion", func() {
			_, err := idx.Insert(ctx, []float32{1, 0, 0}, payload(0, "a"))
			Expect(err).NotTo(HaveOccurred())

			_, err = idx.Insert(ctx, []float32{1, 0}, payload(1, "b"))
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))

			count, err := idx.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("rejects empty vectors", func() {
			_, err := idx.Insert(ctx, nil, payload(0, "a"))
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("makes entries immediately queryable", func() {
			_, err := idx.Insert(ctx, []float32{1, 0}, payload(0, "a"))
			Expect(err).NotTo(HaveOccurred())

			results, err := idx.Query(ctx, []float32{1, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})
	})

	Describe("InsertBatch", func() {
		It("inserts nothing when any vector dimension mismatches", func() {
			_, err := idx.InsertBatch(ctx,
				[][]float32{{1, 0}, {1, 0, 0}},
				[]chunk.Chunk{payload(0, "a"), payload(1, "b")},
			)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))

			count, err := idx.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("rejects mismatched slice lengths", func() {
			_, err := idx.InsertBatch(ctx, [][]float32{{1, 0}}, nil)
			Expect(err).To(HaveOccurred())
		})

		It("returns IDs in insertion order", func() {
			ids, err := idx.InsertBatch(ctx,
				[][]float32{{1, 0}, {0, 1}, {1, 1}},
				[]chunk.Chunk{payload(0, "a"), payload(1, "b"), payload(2, "c")},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]int64{0, 1, 2}))
		})
	})

	Describe("Query", func() {
		It("returns empty results on an empty index", func() {
			results, err := idx.Query(ctx, []float32{1, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("rejects non-positive k", func() {
			_, err := idx.Query(ctx, []float32{1, 0}, 0)
			Expect(err).To(MatchError(vector.ErrInvalidK))
		})

		It("rejects mismatched query dimensions", func() {
			_, err := idx.Insert(ctx, []float32{1, 0, 0}, payload(0, "a"))
			Expect(err).NotTo(HaveOccurred())

			_, err = idx.Query(ctx, []float32{1, 0}, 1)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("round-trips an inserted vector as the top hit", func() {
			_, err := idx.Insert(ctx, []float32{0.9, 0.1}, payload(0, "target"))
			Expect(err).NotTo(HaveOccurred())
			_, err = idx.Insert(ctx, []float32{0.1, 0.9}, payload(1, "other"))
			Expect(err).NotTo(HaveOccurred())

			results, err := idx.Query(ctx, []float32{0.9, 0.1}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Payload.Text).To(Equal("target"))
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
			Expect(results[0].Score).To(BeNumerically(">", results[1].Score))
		})

		It("caps results at the entry count", func() {
			_, err := idx.Insert(ctx, []float32{1, 0}, payload(0, "a"))
			Expect(err).NotTo(HaveOccurred())

			results, err := idx.Query(ctx, []float32{1, 0}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})

		It("breaks score ties by ascending ID", func() {
			// Identical vectors produce identical scores.
			for i := range 3 {
				_, err := idx.Insert(ctx, []float32{1, 1}, payload(i, "same"))
				Expect(err).NotTo(HaveOccurred())
			}

			results, err := idx.Query(ctx, []float32{1, 1}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].ID).To(Equal(int64(0)))
			Expect(results[1].ID).To(Equal(int64(1)))
			Expect(results[2].ID).To(Equal(int64(2)))
		})

		It("is unaffected by later mutation of the caller's vector", func() {
			vec := []float32{1, 0}
			_, err := idx.Insert(ctx, vec, payload(0, "a"))
			Expect(err).NotTo(HaveOccurred())
			vec[0] = 0
			vec[1] = 1

			results, err := idx.Query(ctx, []float32{1, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
		})
	})

	Describe("Clear", func() {
		It("removes entries and re-establishes dimensionality", func() {
			_, err := idx.Insert(ctx, []float32{1, 0, 0}, payload(0, "a"))
			Expect(err).NotTo(HaveOccurred())

			Expect(idx.Clear(ctx)).To(Succeed())

			count, err := idx.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			// A different dimensionality is accepted after Clear.
			_, err = idx.Insert(ctx, []float32{1, 0}, payload(0, "b"))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("concurrent access", func() {
		It("serves queries while insertions proceed", func() {
			for i := range 50 {
				_, err := idx.Insert(ctx, []float32{float32(i), 1}, payload(i, "seed"))
				Expect(err).NotTo(HaveOccurred())
			}

			var wg sync.WaitGroup
			for range 8 {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					for range 100 {
						_, err := idx.Query(ctx, []float32{1, 1}, 5)
						Expect(err).NotTo(HaveOccurred())
					}
				}()
			}
			wg.Wait()
		})
	})
})
