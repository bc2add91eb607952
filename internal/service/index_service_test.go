package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/repository/contract"
	"lingua-workbench-be/pkg/embedding"
	"lingua-workbench-be/pkg/vectorindex"
)

type stubEmbedder struct {
	failBatch bool
}

func (s *stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

func (s *stubEmbedder) GenerateBatch(texts []string, taskType string) ([][]float32, error) {
	if s.failBatch {
		return nil, errors.New("rate limited")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

type stubPassageRepo struct {
	upserted int
}

func (s *stubPassageRepo) Upsert(ctx context.Context, passages []*entity.PassageEmbedding) error {
	s.upserted += len(passages)
	return nil
}

func (s *stubPassageRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, audiences []string) ([]*contract.ScoredPassage, error) {
	return nil, nil
}

func (s *stubPassageRepo) DeleteAll(ctx context.Context) error { return nil }

func (s *stubPassageRepo) Count(ctx context.Context) (int64, error) {
	return int64(s.upserted), nil
}

type stubPublisher struct {
	published [][]byte
}

func (s *stubPublisher) Publish(ctx context.Context, payload []byte) error {
	s.published = append(s.published, payload)
	return nil
}

func writeDocs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	good := `<concept id="setup"><title>Setup</title><conbody><p>Install it.</p></conbody></concept>`
	require.NoError(t, os.WriteFile(filepath.Join(root, "c_setup.dita"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.dita"), []byte(`<concept><title>Bad`), 0o644))
	return root
}

func newTestIndexService(root string, repo *stubPassageRepo, emb *stubEmbedder, pub *stubPublisher) IIndexService {
	index := vectorindex.NewIndex(repo, emb, testLogger{}, vectorindex.WithBatchPause(0))
	return NewIndexService(root, index, pub, testLogger{}, "gemini", "gemini-2.5-flash", "gemini")
}

func TestRebuildReportsParseFailures(t *testing.T) {
	repo := &stubPassageRepo{}
	svc := newTestIndexService(writeDocs(t), repo, &stubEmbedder{}, &stubPublisher{})

	res, err := svc.Rebuild(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Indexed)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "broken.dita")
	assert.Equal(t, 1, repo.upserted)
}

func TestRebuildPartialProgressOnIndexFailure(t *testing.T) {
	repo := &stubPassageRepo{}
	svc := newTestIndexService(writeDocs(t), repo, &stubEmbedder{failBatch: true}, &stubPublisher{})

	res, err := svc.Rebuild(context.Background())

	require.Error(t, err)
	require.NotNil(t, res)
	assert.Zero(t, res.Indexed)
	assert.Equal(t, 1, res.Failed)
	// Parse failures plus the indexing error, all as plain strings.
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[1], "rate limited")
}

func TestRequestRebuildPublishes(t *testing.T) {
	pub := &stubPublisher{}
	svc := newTestIndexService(t.TempDir(), &stubPassageRepo{}, &stubEmbedder{}, pub)

	res, err := svc.RequestRebuild(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, res.RequestId)
	require.Len(t, pub.published, 1)
	assert.Contains(t, string(pub.published[0]), res.RequestId)
}
