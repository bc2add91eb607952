package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"lingua-workbench-be/internal/dto"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/pkg/dita"
	"lingua-workbench-be/pkg/vectorindex"
)

// IIndexService manages the documentation index lifecycle.
type IIndexService interface {
	// Rebuild chunks the DITA tree and re-embeds everything, synchronously.
	Rebuild(ctx context.Context) (*dto.ReindexResponse, error)

	// RequestRebuild queues a rebuild on the event bus and returns the
	// request id immediately.
	RequestRebuild(ctx context.Context) (*dto.ReindexAcceptedResponse, error)

	Status(ctx context.Context) (*dto.StatusResponse, error)
}

type indexService struct {
	docsRoot          string
	index             *vectorindex.Index
	publisher         IPublisherService
	logger            logger.ILogger
	llmProvider       string
	llmModel          string
	embeddingProvider string
}

func NewIndexService(
	docsRoot string,
	index *vectorindex.Index,
	publisher IPublisherService,
	log logger.ILogger,
	llmProvider, llmModel, embeddingProvider string,
) IIndexService {
	return &indexService{
		docsRoot:          docsRoot,
		index:             index,
		publisher:         publisher,
		logger:            log,
		llmProvider:       llmProvider,
		llmModel:          llmModel,
		embeddingProvider: embeddingProvider,
	}
}

func (s *indexService) Rebuild(ctx context.Context) (*dto.ReindexResponse, error) {
	chunker := dita.NewChunker(s.docsRoot)
	report, err := chunker.ParseAll()
	if err != nil {
		return nil, err
	}

	s.logger.Info("INDEX_SERVICE", "Parsed documentation tree", map[string]interface{}{
		"files":    report.Files,
		"failed":   report.Failed,
		"passages": len(report.Passages),
	})

	parseErrors := make([]string, 0, len(report.Errors))
	for _, e := range report.Errors {
		parseErrors = append(parseErrors, e.Error())
	}

	indexed, err := s.index.Upsert(ctx, report.Passages)
	if err != nil {
		// Partial progress: report what made it in before the failure.
		s.logger.Error("INDEX_SERVICE", "Index rebuild aborted", map[string]interface{}{
			"indexed": indexed,
			"error":   err.Error(),
		})
		return &dto.ReindexResponse{
			Indexed: indexed,
			Files:   report.Files,
			Failed:  report.Failed,
			Errors:  append(parseErrors, err.Error()),
		}, err
	}

	return &dto.ReindexResponse{
		Indexed: indexed,
		Files:   report.Files,
		Failed:  report.Failed,
		Errors:  parseErrors,
	}, nil
}

func (s *indexService) RequestRebuild(ctx context.Context) (*dto.ReindexAcceptedResponse, error) {
	msg := dto.PublishReindexMessage{
		RequestId: uuid.NewString(),
		DocsRoot:  s.docsRoot,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		return nil, err
	}

	s.logger.Info("INDEX_SERVICE", "Queued index rebuild", map[string]interface{}{
		"request_id": msg.RequestId,
	})
	return &dto.ReindexAcceptedResponse{RequestId: msg.RequestId}, nil
}

func (s *indexService) Status(ctx context.Context) (*dto.StatusResponse, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{
		Status:            "ok",
		IndexedPassages:   stats.Passages,
		LLMProvider:       s.llmProvider,
		LLMModel:          s.llmModel,
		EmbeddingProvider: s.embeddingProvider,
	}, nil
}
