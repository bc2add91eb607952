package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type PassageEmbedding struct {
	Id          string          `gorm:"type:varchar(32);primaryKey"` // md5 passage fingerprint
	Document    string          `gorm:"type:text"`
	Embedding   pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 / nomic dimensions
	Title       string          `gorm:"type:varchar(255)"`
	TopicType   string          `gorm:"type:varchar(30);index"`
	Audience    string          `gorm:"type:varchar(30);index"`
	FilePath    string          `gorm:"type:varchar(500);index"`
	SectionPath string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (PassageEmbedding) TableName() string {
	return "passage_embeddings"
}
