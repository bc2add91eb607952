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

type ScriptLineRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ScriptLineMapper
}

func NewScriptLineRepository(db *gorm.DB) contract.ScriptLineRepository {
	return &ScriptLineRepositoryImpl{
		db:     db,
		mapper: mapper.NewScriptLineMapper(),
	}
}

func (r *ScriptLineRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ScriptLineRepositoryImpl) Create(ctx context.Context, line *entity.ScriptLine) error {
	m := r.mapper.ToModel(line)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*line = *r.mapper.ToEntity(m)
	return nil
}

func (r *ScriptLineRepositoryImpl) CreateBulk(ctx context.Context, lines []*entity.ScriptLine) error {
	models := make([]*model.ScriptLine, len(lines))
	for i, l := range lines {
		models[i] = r.mapper.ToModel(l)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*lines[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ScriptLineRepositoryImpl) Update(ctx context.Context, line *entity.ScriptLine) error {
	m := r.mapper.ToModel(line)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*line = *r.mapper.ToEntity(m)
	return nil
}

func (r *ScriptLineRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ScriptLine, error) {
	var m model.ScriptLine
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ScriptLineRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ScriptLine, error) {
	var models []*model.ScriptLine
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ScriptLine, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ScriptLineRepositoryImpl) FindByChunkOrdered(ctx context.Context, chunkId int64) ([]*entity.ScriptLine, error) {
	return r.FindAll(ctx,
		specification.ByChunkID{ChunkID: chunkId},
		specification.OrderBy{Field: "sort_order"},
	)
}

func (r *ScriptLineRepositoryImpl) BoundarySortOrder(ctx context.Context, chunkId int64, last bool) (float64, bool, error) {
	var m model.ScriptLine
	query := r.db.WithContext(ctx).Where("chunk_id = ?", chunkId)
	if last {
		query = query.Order("sort_order DESC")
	} else {
		query = query.Order("sort_order ASC")
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return m.SortOrder, true, nil
}
