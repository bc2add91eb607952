package contract

import (
	"context"

	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/repository/specification"
)

// ScriptLineRepository is the ordered-item store for script lines.
// FindOne returns (nil, nil) when no row matches.
type ScriptLineRepository interface {
	Create(ctx context.Context, line *entity.ScriptLine) error
	CreateBulk(ctx context.Context, lines []*entity.ScriptLine) error
	Update(ctx context.Context, line *entity.ScriptLine) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ScriptLine, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ScriptLine, error)

	// FindByChunkOrdered returns all lines of a chunk in display order.
	FindByChunkOrdered(ctx context.Context, chunkId int64) ([]*entity.ScriptLine, error)

	// BoundarySortOrder returns the smallest (last=false) or largest
	// (last=true) sort order within a chunk; ok is false for an empty chunk.
	BoundarySortOrder(ctx context.Context, chunkId int64, last bool) (order float64, ok bool, err error)
}

// AudioChunkRepository resolves chunks and their chain neighbours.
type AudioChunkRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AudioChunk, error)

	// FindAdjacent returns the chunk at chunkIndex within the same
	// episode, or (nil, nil) when the chain ends there.
	FindAdjacent(ctx context.Context, sourceAudioId int64, chunkIndex int) (*entity.AudioChunk, error)
}
