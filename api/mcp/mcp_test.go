package mcp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelstack/reelqa/api/mcp"
	"github.com/reelstack/reelqa/pkg/logger"
	testutils "github.com/reelstack/reelqa/pkg/utils/test"
	"github.com/reelstack/reelqa/pkg/vector/exhaustive"
)

var _ = Describe("MCP Server", func() {
	var (
		server   *mcp.Server
		index    *exhaustive.Index
		embedder *testutils.MockEmbedder
	)

	BeforeEach(func() {
		index = exhaustive.New(nil)
		embedder = testutils.NewMockEmbedder()

		var err error
		server, err = mcp.NewServer(mcp.Config{
			Embedder: embedder,
			Index:    index,
			Logger:   logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when embedder is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Index:  index,
				Logger: logger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("embedder is required"))
		})

		It("returns an error when vector index is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Embedder: embedder,
				Logger:   logger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("vector index is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Embedder: embedder,
				Index:    index,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("creates a server with valid config", func() {
			Expect(server).NotTo(BeNil())
		})

		It("returns an HTTP handler", func() {
			handler := server.Handler()
			Expect(handler).NotTo(BeNil())
		})

		It("allows an empty server in noop mode", func() {
			noop, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(noop).NotTo(BeNil())
		})
	})
})
