package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/mapper"
	"lingua-workbench-be/internal/model"
	"lingua-workbench-be/internal/repository/contract"
	"lingua-workbench-be/internal/repository/specification"
)

type AudioChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AudioChunkMapper
}

func NewAudioChunkRepository(db *gorm.DB) contract.AudioChunkRepository {
	return &AudioChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewAudioChunkMapper(),
	}
}

func (r *AudioChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AudioChunk, error) {
	var m model.AudioChunk
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AudioChunkRepositoryImpl) FindAdjacent(ctx context.Context, sourceAudioId int64, chunkIndex int) (*entity.AudioChunk, error) {
	return r.FindOne(ctx,
		specification.BySourceAudioID{SourceAudioID: sourceAudioId},
		specification.ByChunkIndex{ChunkIndex: chunkIndex},
	)
}
