package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/repository/contract"
	"lingua-workbench-be/pkg/dita"
	"lingua-workbench-be/pkg/embedding"
)

type fakeEmbedder struct {
	batchCalls int
	failBatch  int // 1-based batch number to fail on, 0 = never
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

func (f *fakeEmbedder) GenerateBatch(texts []string, taskType string) ([][]float32, error) {
	f.batchCalls++
	if f.failBatch != 0 && f.batchCalls == f.failBatch {
		return nil, errors.New("rate limited")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), 1, 0}
	}
	return vectors, nil
}

var _ embedding.EmbeddingProvider = (*fakeEmbedder)(nil)

type fakeRepo struct {
	upserted  [][]*entity.PassageEmbedding
	searchOut []*contract.ScoredPassage
	searchIn  struct {
		limit     int
		audiences []string
	}
	deleted bool
	count   int64
}

func (f *fakeRepo) Upsert(ctx context.Context, passages []*entity.PassageEmbedding) error {
	f.upserted = append(f.upserted, passages)
	return nil
}

func (f *fakeRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, audiences []string) ([]*contract.ScoredPassage, error) {
	f.searchIn.limit = limit
	f.searchIn.audiences = audiences
	return f.searchOut, nil
}

func (f *fakeRepo) DeleteAll(ctx context.Context) error {
	f.deleted = true
	return nil
}

func (f *fakeRepo) Count(ctx context.Context) (int64, error) {
	return f.count, nil
}

var _ contract.PassageEmbeddingRepository = (*fakeRepo)(nil)

// filteringRepo applies the audience filter the way the SQL IN clause
// does: a nil filter matches everything.
type filteringRepo struct {
	corpus []*contract.ScoredPassage
}

func (f *filteringRepo) Upsert(ctx context.Context, passages []*entity.PassageEmbedding) error {
	return nil
}

func (f *filteringRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, audiences []string) ([]*contract.ScoredPassage, error) {
	var out []*contract.ScoredPassage
	for _, p := range f.corpus {
		if audiences != nil && !containsAudience(audiences, p.Passage.Audience) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *filteringRepo) DeleteAll(ctx context.Context) error { return nil }

func (f *filteringRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.corpus)), nil
}

func containsAudience(audiences []string, audience string) bool {
	for _, a := range audiences {
		if a == audience {
			return true
		}
	}
	return false
}

var _ contract.PassageEmbeddingRepository = (*filteringRepo)(nil)

func makePassages(n int) []dita.Passage {
	passages := make([]dita.Passage, n)
	for i := range passages {
		passages[i] = dita.Passage{
			ID:       fmt.Sprintf("passage-%03d", i),
			Content:  fmt.Sprintf("content %d", i),
			Title:    "Setup",
			Audience: "all",
			FilePath: "docs/setup.dita",
		}
	}
	return passages
}

func TestUpsertBatches(t *testing.T) {
	repo := &fakeRepo{}
	emb := &fakeEmbedder{}
	idx := NewIndex(repo, emb, noopLogger{}, WithBatchSize(50), WithBatchPause(0))

	indexed, err := idx.Upsert(context.Background(), makePassages(120))

	require.NoError(t, err)
	assert.Equal(t, 120, indexed)
	require.Len(t, repo.upserted, 3)
	assert.Len(t, repo.upserted[0], 50)
	assert.Len(t, repo.upserted[1], 50)
	assert.Len(t, repo.upserted[2], 20)
	assert.Equal(t, "passage-000", repo.upserted[0][0].Id)
	assert.Equal(t, "content 0", repo.upserted[0][0].Document)
}

func TestUpsertPartialProgress(t *testing.T) {
	repo := &fakeRepo{}
	emb := &fakeEmbedder{failBatch: 2}
	idx := NewIndex(repo, emb, noopLogger{}, WithBatchSize(50), WithBatchPause(0))

	indexed, err := idx.Upsert(context.Background(), makePassages(120))

	require.Error(t, err)
	assert.Equal(t, 50, indexed)
	assert.Len(t, repo.upserted, 1)
}

func TestUpsertEmpty(t *testing.T) {
	repo := &fakeRepo{}
	idx := NewIndex(repo, &fakeEmbedder{}, noopLogger{}, WithBatchPause(0))

	indexed, err := idx.Upsert(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, indexed)
	assert.Empty(t, repo.upserted)
}

func TestAudienceScope(t *testing.T) {
	assert.Equal(t, []string{"all", "user"}, AudienceScope("user"))
	assert.Nil(t, AudienceScope("developer"))
	assert.Nil(t, AudienceScope(""))
}

func TestDeveloperResultsAreSupersetOfUserResults(t *testing.T) {
	repo := &filteringRepo{corpus: []*contract.ScoredPassage{
		{Passage: &entity.PassageEmbedding{Id: "p1", Audience: "all"}, Similarity: 0.9},
		{Passage: &entity.PassageEmbedding{Id: "p2", Audience: "developer"}, Similarity: 0.8},
		{Passage: &entity.PassageEmbedding{Id: "p3", Audience: "user"}, Similarity: 0.7},
		{Passage: &entity.PassageEmbedding{Id: "p4", Audience: "developer"}, Similarity: 0.6},
	}}
	idx := NewIndex(repo, &fakeEmbedder{}, noopLogger{})

	userResults, err := idx.Search(context.Background(), "query", 10, "user")
	require.NoError(t, err)
	devResults, err := idx.Search(context.Background(), "query", 10, "developer")
	require.NoError(t, err)

	userIDs := resultIDs(userResults)
	devIDs := resultIDs(devResults)

	assert.ElementsMatch(t, []string{"p1", "p3"}, userIDs)
	// Widening the scope never hides anything the narrow scope returned.
	assert.Subset(t, devIDs, userIDs)
	assert.ElementsMatch(t, []string{"p1", "p2", "p3", "p4"}, devIDs)
}

func resultIDs(results []*Result) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Passage.Id
	}
	return ids
}

func TestSearchPassesScopeAndLimit(t *testing.T) {
	repo := &fakeRepo{}
	idx := NewIndex(repo, &fakeEmbedder{}, noopLogger{})

	_, err := idx.Search(context.Background(), "how do I install", 3, "user")

	require.NoError(t, err)
	assert.Equal(t, 3, repo.searchIn.limit)
	assert.Equal(t, []string{"all", "user"}, repo.searchIn.audiences)
}

func TestSearchDeterministicTieBreak(t *testing.T) {
	repo := &fakeRepo{
		searchOut: []*contract.ScoredPassage{
			{Passage: &entity.PassageEmbedding{Id: "bbb"}, Similarity: 0.9},
			{Passage: &entity.PassageEmbedding{Id: "aaa"}, Similarity: 0.9},
			{Passage: &entity.PassageEmbedding{Id: "ccc"}, Similarity: 0.95},
		},
	}
	idx := NewIndex(repo, &fakeEmbedder{}, noopLogger{})

	results, err := idx.Search(context.Background(), "query", 5, "developer")

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "ccc", results[0].Passage.Id)
	assert.Equal(t, "aaa", results[1].Passage.Id)
	assert.Equal(t, "bbb", results[2].Passage.Id)
}

func TestClearAndStats(t *testing.T) {
	repo := &fakeRepo{count: 42}
	idx := NewIndex(repo, &fakeEmbedder{}, noopLogger{})

	require.NoError(t, idx.Clear(context.Background()))
	assert.True(t, repo.deleted)

	stats, err := idx.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.Passages)
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }
