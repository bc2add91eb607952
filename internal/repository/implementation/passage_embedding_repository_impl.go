package implementation

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/mapper"
	"lingua-workbench-be/internal/model"
	"lingua-workbench-be/internal/repository/contract"
	"lingua-workbench-be/internal/repository/specification"
)

type PassageEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PassageEmbeddingMapper
}

func NewPassageEmbeddingRepository(db *gorm.DB) contract.PassageEmbeddingRepository {
	return &PassageEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewPassageEmbeddingMapper(),
	}
}

// Upsert replaces rows by passage ID so re-indexing unchanged docs is
// idempotent.
func (r *PassageEmbeddingRepositoryImpl) Upsert(ctx context.Context, passages []*entity.PassageEmbedding) error {
	if len(passages) == 0 {
		return nil
	}
	models := make([]*model.PassageEmbedding, len(passages))
	for i, p := range passages {
		models[i] = r.mapper.ToModel(p)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"document", "embedding", "title", "topic_type", "audience",
				"file_path", "section_path", "updated_at",
			}),
		}).
		Create(models).Error
}

// SearchSimilarWithScore runs a pgvector cosine search.
// Cosine distance in pgvector is 1 - cosine_similarity, so we compute
// 1 - (embedding <=> query_vector) = cosine_similarity. Ties are broken
// by passage ID for deterministic result ordering.
func (r *PassageEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, audiences []string) ([]*contract.ScoredPassage, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.PassageEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("passage_embeddings").
		Select("passage_embeddings.*, 1 - (embedding <=> ?) as similarity", queryVector)

	if len(audiences) > 0 {
		query = specification.ByAudiences{Audiences: audiences}.Apply(query)
	}

	err := query.
		Order("similarity DESC, id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPassage, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPassage{
			Passage:    r.mapper.ToEntity(&res.PassageEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *PassageEmbeddingRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("DELETE FROM passage_embeddings").Error
}

func (r *PassageEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PassageEmbedding{}).Count(&count).Error
	return count, err
}
