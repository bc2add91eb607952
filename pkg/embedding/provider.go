package embedding

// Task types understood by the providers. Gemini distinguishes document
// and query embeddings; Ollama ignores the hint.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)

	// GenerateBatch embeds several texts in a single provider call,
	// returning one vector per input in order.
	GenerateBatch(texts []string, taskType string) ([][]float32, error)
}
