package dto

type StatusResponse struct {
	Status            string `json:"status"`
	IndexedPassages   int64  `json:"indexed_passages"`
	LLMProvider       string `json:"llm_provider"`
	LLMModel          string `json:"llm_model"`
	EmbeddingProvider string `json:"embedding_provider"`
}

type ReindexResponse struct {
	Indexed int      `json:"indexed"`
	Files   int      `json:"files"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

type ReindexAcceptedResponse struct {
	RequestId string `json:"request_id"`
}

// PublishReindexMessage is the event payload asking the consumer to
// rebuild the documentation index.
type PublishReindexMessage struct {
	RequestId string `json:"request_id"`
	DocsRoot  string `json:"docs_root"`
}
