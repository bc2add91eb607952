package mapper

import (
	"github.com/pgvector/pgvector-go"

	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/model"
)

type PassageEmbeddingMapper struct{}

func NewPassageEmbeddingMapper() *PassageEmbeddingMapper {
	return &PassageEmbeddingMapper{}
}

func (m *PassageEmbeddingMapper) ToModel(e *entity.PassageEmbedding) *model.PassageEmbedding {
	return &model.PassageEmbedding{
		Id:          e.Id,
		Document:    e.Document,
		Embedding:   pgvector.NewVector(e.Embedding),
		Title:       e.Title,
		TopicType:   e.TopicType,
		Audience:    e.Audience,
		FilePath:    e.FilePath,
		SectionPath: e.SectionPath,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (m *PassageEmbeddingMapper) ToEntity(mod *model.PassageEmbedding) *entity.PassageEmbedding {
	return &entity.PassageEmbedding{
		Id:          mod.Id,
		Document:    mod.Document,
		Embedding:   mod.Embedding.Slice(),
		Title:       mod.Title,
		TopicType:   mod.TopicType,
		Audience:    mod.Audience,
		FilePath:    mod.FilePath,
		SectionPath: mod.SectionPath,
		CreatedAt:   mod.CreatedAt,
		UpdatedAt:   mod.UpdatedAt,
	}
}
