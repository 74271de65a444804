package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apisearch "github.com/reelstack/reelqa/api/search"
	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/logger"
	testutils "github.com/reelstack/reelqa/pkg/utils/test"
	"github.com/reelstack/reelqa/pkg/vector"
	"github.com/reelstack/reelqa/pkg/vector/exhaustive"
)

var _ = Describe("handleSearchEndpoint", func() {
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

		server = NewServer(Config{
			ListenAddr: ":0",
			Embedder:   embedder,
			Index:      index,
		}, nil, logger.Nop())
	})

	Context("when search is not configured", func() {
		It("returns 503 when vector index and embedder are nil", func() {
			noSearchServer := NewServer(Config{ListenAddr: ":0"}, nil, logger.Nop())

			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := noSearchServer.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})
	})

	Context("when query parameter is missing", func() {
		It("returns 400", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("query parameter is required"))
		})
	})

	Context("when top_k is invalid", func() {
		It("returns 400 for non-integer top_k", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test&top_k=abc", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 400 for non-positive top_k", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test&top_k=0", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Context("with indexed chunks", func() {
		BeforeEach(func() {
			embedder.Embeddings["The sky is blue."] = []float32{1, 0, 0}
			embedder.Embeddings["Water is wet."] = []float32{0, 1, 0}
			embedder.Embeddings["sky"] = []float32{0.9, 0.1, 0}

			for i, text := range []string{"The sky is blue.", "Water is wet."} {
				vec, err := embedder.Embed(ctx, text)
				Expect(err).NotTo(HaveOccurred())
				_, err = index.Insert(ctx, vec, chunk.Chunk{Text: text, Ordinal: i})
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("returns the most similar chunk first", func() {
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=sky&top_k=1", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var out apisearch.SearchOutput
			decodeBody(resp, &out)
			Expect(out.Query).To(Equal("sky"))
			Expect(out.Count).To(Equal(1))
			Expect(out.Results[0].Text).To(Equal("The sky is blue."))
		})

		It("returns 500 when the query cannot be embedded", func() {
			embedder.FailOn = "sky"

			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=sky", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
		})
	})
})

var _ = Describe("BuildSearchResult", func() {
	It("copies id, score, and chunk position", func() {
		result := vector.Result{
			Entry: vector.Entry{
				ID:      7,
				Payload: chunk.Chunk{Text: "Water is wet.", Ordinal: 1, SourceOffset: 17},
			},
			Score: 0.75,
		}

		sr := apisearch.BuildSearchResult(result)
		Expect(sr.ID).To(Equal(int64(7)))
		Expect(sr.Score).To(Equal(float32(0.75)))
		Expect(sr.Ordinal).To(Equal(1))
		Expect(sr.Offset).To(Equal(17))
		Expect(sr.Text).To(Equal("Water is wet."))
	})
})
