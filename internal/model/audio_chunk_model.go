package model

import "time"

type AudioChunk struct {
	Id            int64     `gorm:"primaryKey;autoIncrement"`
	SourceAudioId int64     `gorm:"not null;index:idx_audio_chunks_source_index,priority:1"`
	ChunkIndex    int       `gorm:"index:idx_audio_chunks_source_index,priority:2"`
	Title         string    `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (AudioChunk) TableName() string {
	return "audio_chunks"
}
