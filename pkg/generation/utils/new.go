// Package generationutils is the generator factory package.
package generationutils

import (
	"fmt"

	"github.com/reelstack/reelqa/pkg/generation"
	"github.com/reelstack/reelqa/pkg/generation/ollama"
	"github.com/reelstack/reelqa/pkg/generation/openai"
)

type NewGeneratorOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
	Temperature  *float64
}

func NewGenerator(o *NewGeneratorOpts) (generation.Generator, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewGenerator(ollama.GeneratorConfig{
			BaseURL:     o.TargetURL,
			Model:       o.Model,
			Temperature: o.Temperature,
		})
	case "openai":
		return openai.NewGenerator(openai.GeneratorConfig{
			BaseURL:     o.TargetURL,
			APIKey:      o.APIKey,
			Model:       o.Model,
			Temperature: o.Temperature,
		})
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", o.ProviderType)
	}
}
