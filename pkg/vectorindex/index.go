package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/internal/repository/contract"
	"lingua-workbench-be/pkg/dita"
	"lingua-workbench-be/pkg/embedding"
	"lingua-workbench-be/pkg/store"
)

const (
	// DefaultBatchSize keeps embedding requests under provider payload limits.
	DefaultBatchSize = 50

	// DefaultBatchPause spaces out batches to stay inside rate limits.
	DefaultBatchPause = 200 * time.Millisecond

	DefaultTopK = 5
)

// Result is a retrieved passage with its cosine similarity score.
type Result struct {
	Passage    *entity.PassageEmbedding
	Similarity float64
}

// Stats reports the current state of the index.
type Stats struct {
	Passages int64 `json:"passages"`
}

type Index struct {
	repo       contract.PassageEmbeddingRepository
	embedder   embedding.EmbeddingProvider
	logger     logger.ILogger
	batchSize  int
	batchPause time.Duration
}

type Option func(*Index)

func WithBatchSize(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

func WithBatchPause(d time.Duration) Option {
	return func(i *Index) {
		i.batchPause = d
	}
}

func NewIndex(repo contract.PassageEmbeddingRepository, embedder embedding.EmbeddingProvider, log logger.ILogger, opts ...Option) *Index {
	idx := &Index{
		repo:       repo,
		embedder:   embedder,
		logger:     log,
		batchSize:  DefaultBatchSize,
		batchPause: DefaultBatchPause,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Upsert embeds the passages in batches and writes them to the store.
// Passage IDs are content hashes, so re-running over unchanged documents
// rewrites the same rows. On failure it returns the number of passages
// already indexed alongside the error, so a caller can resume.
func (i *Index) Upsert(ctx context.Context, passages []dita.Passage) (int, error) {
	indexed := 0
	for start := 0; start < len(passages); start += i.batchSize {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}

		end := start + i.batchSize
		if end > len(passages) {
			end = len(passages)
		}
		batch := passages[start:end]

		texts := make([]string, len(batch))
		for j, p := range batch {
			texts[j] = p.Content
		}

		vectors, err := i.embedder.GenerateBatch(texts, embedding.TaskRetrievalDocument)
		if err != nil {
			return indexed, fmt.Errorf("failed to embed batch starting at %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return indexed, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(batch))
		}

		rows := make([]*entity.PassageEmbedding, len(batch))
		now := time.Now()
		for j, p := range batch {
			rows[j] = &entity.PassageEmbedding{
				Id:          p.ID,
				Document:    p.Content,
				Embedding:   vectors[j],
				Title:       p.Title,
				TopicType:   p.TopicType,
				Audience:    p.Audience,
				FilePath:    p.FilePath,
				SectionPath: p.Breadcrumb(),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
		}

		if err := i.repo.Upsert(ctx, rows); err != nil {
			return indexed, fmt.Errorf("failed to store batch starting at %d: %w", start, err)
		}
		indexed += len(batch)

		i.logger.Info("VECTOR_INDEX", "Indexed batch", map[string]interface{}{
			"indexed": indexed,
			"total":   len(passages),
		})

		if end < len(passages) && i.batchPause > 0 {
			select {
			case <-time.After(i.batchPause):
			case <-ctx.Done():
				return indexed, ctx.Err()
			}
		}
	}
	return indexed, nil
}

// Search embeds the query and returns the top k passages visible to the
// given audience, best match first.
func (i *Index) Search(ctx context.Context, query string, k int, audience string) ([]*Result, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	resp, err := i.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := i.repo.SearchSimilarWithScore(ctx, resp.Embedding.Values, k, AudienceScope(audience))
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(scored))
	for j, s := range scored {
		results[j] = &Result{Passage: s.Passage, Similarity: s.Similarity}
	}
	sortResults(results)
	return results, nil
}

func (i *Index) Clear(ctx context.Context) error {
	return i.repo.DeleteAll(ctx)
}

func (i *Index) Stats(ctx context.Context) (*Stats, error) {
	count, err := i.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Passages: count}, nil
}

// AudienceScope maps an audience to the visibility filter applied at
// query time. End users see content tagged for everyone or for users.
// Developers (and unknown audiences) see everything, expressed as a nil
// filter.
func AudienceScope(audience string) []string {
	if audience == store.AudienceUser {
		return []string{"all", store.AudienceUser}
	}
	return nil
}

// sortResults orders by similarity descending, breaking ties by passage
// ID so identical scores always come back in the same order.
func sortResults(results []*Result) {
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Similarity != results[b].Similarity {
			return results[a].Similarity > results[b].Similarity
		}
		return results[a].Passage.Id < results[b].Passage.Id
	})
}
