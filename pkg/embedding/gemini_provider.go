package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type GeminiProvider struct {
	ApiKey string
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey: apiKey,
	}
}

const geminiEmbeddingModel = "text-embedding-004"

type geminiContentPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiContentPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"task_type,omitempty"`
}

type geminiBatchEmbedRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiBatchEmbedResponse struct {
	Embeddings []EmbeddingResponseEmbedding `json:"embeddings"`
}

func (p *GeminiProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	geminiReq := geminiEmbedRequest{
		Model: "models/" + geminiEmbeddingModel,
		Content: geminiContent{
			Parts: []geminiContentPart{{Text: text}},
		},
		TaskType: taskType,
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		geminiEmbeddingModel,
	)

	resByte, err := p.post(endpoint, geminiReq)
	if err != nil {
		return nil, err
	}

	var resEmbedding EmbeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, err
	}
	return &resEmbedding, nil
}

func (p *GeminiProvider) GenerateBatch(texts []string, taskType string) ([][]float32, error) {
	requests := make([]geminiEmbedRequest, len(texts))
	for i, text := range texts {
		requests[i] = geminiEmbedRequest{
			Model: "models/" + geminiEmbeddingModel,
			Content: geminiContent{
				Parts: []geminiContentPart{{Text: text}},
			},
			TaskType: taskType,
		}
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:batchEmbedContents",
		geminiEmbeddingModel,
	)

	resByte, err := p.post(endpoint, geminiBatchEmbedRequest{Requests: requests})
	if err != nil {
		return nil, err
	}

	var batchRes geminiBatchEmbedResponse
	if err := json.Unmarshal(resByte, &batchRes); err != nil {
		return nil, err
	}
	if len(batchRes.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d inputs", len(batchRes.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(batchRes.Embeddings))
	for i, e := range batchRes.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (p *GeminiProvider) post(endpoint string, payload any) ([]byte, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}
	return resByte, nil
}
