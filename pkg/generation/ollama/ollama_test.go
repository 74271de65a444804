package ollama_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reelstack/reelqa/pkg/generation"
	"github.com/reelstack/reelqa/pkg/generation/ollama"
)

func TestGenerate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model":             "llama3.2",
			"response":          "The sky is blue.",
			"done":              true,
			"prompt_eval_count": 12,
			"eval_count":        5,
		})
	}))
	defer srv.Close()

	g, err := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer g.Close()

	resp, err := g.Generate(context.Background(), "What color is the sky?")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Text != "The sky is blue." {
		t.Fatalf("got %q", resp.Text)
	}
	if resp.PromptTokens != 12 || resp.CompletionTokens != 5 {
		t.Fatalf("usage not mapped: %+v", resp)
	}

	if gotBody["prompt"] != "What color is the sky?" {
		t.Fatalf("prompt not forwarded: %v", gotBody)
	}
	if gotBody["stream"] != false {
		t.Fatalf("non-streaming call must set stream=false: %v", gotBody)
	}
	opts := gotBody["options"].(map[string]any)
	if opts["temperature"] != generation.DefaultTemperature {
		t.Fatalf("default temperature not applied: %v", opts)
	}
}

func TestGenerateTemperatureOverride(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"response": "ok", "done": true})
	}))
	defer srv.Close()

	temp := 0.9
	g, _ := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: srv.URL, Temperature: &temp})
	defer g.Close()

	if _, err := g.Generate(context.Background(), "q"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	opts := gotBody["options"].(map[string]any)
	if opts["temperature"] != 0.9 {
		t.Fatalf("temperature override lost: %v", opts)
	}
}

func TestGenerateStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["stream"] != true {
			t.Errorf("streaming call must set stream=true: %v", body)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(`{"model":"llama3.2","response":"The sky ","done":false}` + "\n"))
		w.Write([]byte(`{"model":"llama3.2","response":"is blue.","done":false}` + "\n"))
		w.Write([]byte(`{"model":"llama3.2","response":"","done":true,"prompt_eval_count":3,"eval_count":7}` + "\n"))
	}))
	defer srv.Close()

	g, _ := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: srv.URL})
	defer g.Close()

	var deltas []string
	resp, err := g.GenerateStream(context.Background(), "q", func(d string) {
		deltas = append(deltas, d)
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if resp.Text != "The sky is blue." {
		t.Fatalf("assembled text %q", resp.Text)
	}
	if strings.Join(deltas, "") != resp.Text {
		t.Fatalf("deltas %v do not assemble to %q", deltas, resp.Text)
	}
	if resp.CompletionTokens != 7 {
		t.Fatalf("final chunk usage lost: %+v", resp)
	}
}

func TestGenerateServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	g, _ := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: srv.URL})
	defer g.Close()

	_, err := g.Generate(context.Background(), "q")
	if !errors.Is(err, generation.ErrGeneration) {
		t.Fatalf("want ErrGeneration, got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("status not surfaced: %v", err)
	}
}

func TestGenerateUnreachable(t *testing.T) {
	g, _ := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: "http://127.0.0.1:1"})
	defer g.Close()

	_, err := g.Generate(context.Background(), "q")
	if !errors.Is(err, generation.ErrGeneration) {
		t.Fatalf("want ErrGeneration, got %v", err)
	}
}
