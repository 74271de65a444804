package config

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200

	defaultRetrievalK = 4

	defaultProviderTarget = "http://localhost:11434"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultGenerationProvider    = "ollama"
	defaultGenerationModel       = "llama3.2"
	defaultGenerationTemperature = 0.2

	defaultVectorProvider = "sqlite"

	defaultTranscriptProvider = "youtube"
	defaultTranscriptLanguage = "en"

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "reelqa.events"

	defaultAPIListen       = ":8081"
	defaultClientAPITarget = "http://localhost:8081"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Chunking: ChunkingConfig{
			Size:    defaultChunkSize,
			Overlap: defaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			K: defaultRetrievalK,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultProviderTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Generation: GenerationConfig{
			Provider:    defaultGenerationProvider,
			Target:      defaultProviderTarget,
			Model:       defaultGenerationModel,
			Temperature: defaultGenerationTemperature,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Transcript: TranscriptConfig{
			Provider: defaultTranscriptProvider,
			Language: defaultTranscriptLanguage,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
	}
}
