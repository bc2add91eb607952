package unitofwork

import (
	"context"

	"lingua-workbench-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ScriptLineRepository() contract.ScriptLineRepository
	AudioChunkRepository() contract.AudioChunkRepository
	PassageEmbeddingRepository() contract.PassageEmbeddingRepository
}
