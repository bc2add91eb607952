package contract

import (
	"context"

	"lingua-workbench-be/internal/entity"
)

// ScoredPassage pairs an indexed passage with its query similarity.
type ScoredPassage struct {
	Passage    *entity.PassageEmbedding
	Similarity float64
}

// PassageEmbeddingRepository stores documentation passages and their
// vectors. Upsert replaces by passage ID; SearchSimilarWithScore
// returns cosine similarities ordered best-first with ID as the
// deterministic tiebreaker. audiences nil means no scope filter.
type PassageEmbeddingRepository interface {
	Upsert(ctx context.Context, passages []*entity.PassageEmbedding) error
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, audiences []string) ([]*ScoredPassage, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
