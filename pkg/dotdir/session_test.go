package dotdir_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelstack/reelqa/pkg/dotdir"
)

var _ = Describe("Session", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "session-test-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadSessionState", func() {
		It("returns nil for a fresh directory", func() {
			state, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("round-trips a saved session", func() {
			saved := &dotdir.SessionState{
				VideoID:    "vid123",
				ChunkCount: 42,
				IndexedAt:  time.Unix(1735689600, 0).UTC(),
				Exchanges: []dotdir.SessionExchange{
					{Question: "What color is the sky?", Answer: "The sky is blue."},
				},
			}
			Expect(m.SaveSession(saved, tmpDir)).To(Succeed())

			loaded, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).NotTo(BeNil())
			Expect(loaded.VideoID).To(Equal("vid123"))
			Expect(loaded.ChunkCount).To(Equal(42))
			Expect(loaded.Exchanges).To(HaveLen(1))
			Expect(loaded.Exchanges[0].Answer).To(Equal("The sky is blue."))
		})
	})

	Describe("SaveSession", func() {
		It("rejects a nil state", func() {
			Expect(m.SaveSession(nil, tmpDir)).NotTo(Succeed())
		})

		It("overwrites an existing session", func() {
			Expect(m.SaveSession(&dotdir.SessionState{VideoID: "a"}, tmpDir)).To(Succeed())
			Expect(m.SaveSession(&dotdir.SessionState{VideoID: "b"}, tmpDir)).To(Succeed())

			loaded, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.VideoID).To(Equal("b"))
		})
	})

	Describe("ClearSession", func() {
		It("removes a saved session", func() {
			Expect(m.SaveSession(&dotdir.SessionState{VideoID: "a"}, tmpDir)).To(Succeed())
			Expect(m.ClearSession(tmpDir)).To(Succeed())

			state, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("is a no-op when no session exists", func() {
			Expect(m.ClearSession(tmpDir)).To(Succeed())
		})
	})
})
