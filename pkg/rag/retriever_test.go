package rag_test

import (
	"context"
	"testing"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/rag"
	testutils "github.com/reelstack/reelqa/pkg/utils/test"
	"github.com/reelstack/reelqa/pkg/vector/exhaustive"
)

func TestRetrieverRoundTrip(t *testing.T) {
	ctx := context.Background()
	emb := testutils.NewMockEmbedder()
	emb.Dim = 3
	emb.Embeddings["sky text"] = []float32{1, 0, 0}
	emb.Embeddings["water text"] = []float32{0, 1, 0}
	emb.Embeddings["sky query"] = []float32{0.9, 0.1, 0}

	idx := exhaustive.New(nil)
	defer idx.Close()
	for _, text := range []string{"sky text", "water text"} {
		vec, _ := emb.Embed(ctx, text)
		if _, err := idx.Insert(ctx, vec, chunk.Chunk{Text: text}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	r, err := rag.NewRetriever(rag.RetrieverConfig{Embedder: emb, Index: idx, K: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	chunks, err := r.Retrieve(ctx, "sky query")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "sky text" {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}

	results, err := r.Results(ctx, "sky query", 1)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 1 || results[0].Score <= 0 {
		t.Fatalf("scored results should keep similarity scores: %+v", results)
	}
}

func TestRetrieverRequiresCollaborators(t *testing.T) {
	if _, err := rag.NewRetriever(rag.RetrieverConfig{Index: exhaustive.New(nil)}); err == nil {
		t.Fatal("want error without embedder")
	}
	if _, err := rag.NewRetriever(rag.RetrieverConfig{Embedder: testutils.NewMockEmbedder()}); err == nil {
		t.Fatal("want error without index")
	}
}

func TestRetrieverInvokeRejectsNonString(t *testing.T) {
	r, err := rag.NewRetriever(rag.RetrieverConfig{
		Embedder: testutils.NewMockEmbedder(),
		Index:    exhaustive.New(nil),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := r.Invoke(context.Background(), 42); err == nil {
		t.Fatal("want error for non-string input")
	}
}

func TestFormatContext(t *testing.T) {
	chunks := []chunk.Chunk{
		{Text: " first chunk \n"},
		{Text: "second chunk"},
	}
	got := rag.FormatContext(chunks)
	if got != "first chunk\n\nsecond chunk" {
		t.Fatalf("got %q", got)
	}
	if rag.FormatContext(nil) != "" {
		t.Fatal("empty input should format to empty string")
	}
}
