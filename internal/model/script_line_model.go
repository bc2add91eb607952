package model

import "time"

type ScriptLine struct {
	Id         int64   `gorm:"primaryKey;autoIncrement"`
	ChunkId    int64   `gorm:"not null;index:idx_script_lines_chunk_order,priority:1"`
	Index      int     `gorm:"column:line_index;index"`
	SortOrder  float64 `gorm:"column:sort_order;index:idx_script_lines_chunk_order,priority:2"`
	LineType   string  `gorm:"type:varchar(20);default:dialogue"`
	Speaker    string  `gorm:"type:varchar(100)"`
	Text       string  `gorm:"type:text"`
	TextZh     string  `gorm:"type:text"`
	ActionNote string  `gorm:"type:text"`
	RawText    string  `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (ScriptLine) TableName() string {
	return "script_lines"
}
