package specification

import "gorm.io/gorm"

// ByChunkID filters script lines by their containing chunk
type ByChunkID struct {
	ChunkID int64
}

func (s ByChunkID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chunk_id = ?", s.ChunkID)
}

// BySourceAudioID filters audio chunks by their episode
type BySourceAudioID struct {
	SourceAudioID int64
}

func (s BySourceAudioID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_audio_id = ?", s.SourceAudioID)
}

// ByChunkIndex filters audio chunks by chain position
type ByChunkIndex struct {
	ChunkIndex int
}

func (s ByChunkIndex) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chunk_index = ?", s.ChunkIndex)
}

// ByAudiences filters passages by declared audience scope
type ByAudiences struct {
	Audiences []string
}

func (s ByAudiences) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("audience IN ?", s.Audiences)
}
