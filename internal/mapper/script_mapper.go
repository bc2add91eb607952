package mapper

import (
	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/model"
)

type ScriptLineMapper struct{}

func NewScriptLineMapper() *ScriptLineMapper {
	return &ScriptLineMapper{}
}

func (m *ScriptLineMapper) ToModel(e *entity.ScriptLine) *model.ScriptLine {
	return &model.ScriptLine{
		Id:         e.Id,
		ChunkId:    e.ChunkId,
		Index:      e.Index,
		SortOrder:  e.SortOrder,
		LineType:   e.LineType,
		Speaker:    e.Speaker,
		Text:       e.Text,
		TextZh:     e.TextZh,
		ActionNote: e.ActionNote,
		RawText:    e.RawText,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (m *ScriptLineMapper) ToEntity(mod *model.ScriptLine) *entity.ScriptLine {
	return &entity.ScriptLine{
		Id:         mod.Id,
		ChunkId:    mod.ChunkId,
		Index:      mod.Index,
		SortOrder:  mod.SortOrder,
		LineType:   mod.LineType,
		Speaker:    mod.Speaker,
		Text:       mod.Text,
		TextZh:     mod.TextZh,
		ActionNote: mod.ActionNote,
		RawText:    mod.RawText,
		CreatedAt:  mod.CreatedAt,
		UpdatedAt:  mod.UpdatedAt,
	}
}

type AudioChunkMapper struct{}

func NewAudioChunkMapper() *AudioChunkMapper {
	return &AudioChunkMapper{}
}

func (m *AudioChunkMapper) ToEntity(mod *model.AudioChunk) *entity.AudioChunk {
	return &entity.AudioChunk{
		Id:            mod.Id,
		SourceAudioId: mod.SourceAudioId,
		ChunkIndex:    mod.ChunkIndex,
		Title:         mod.Title,
		CreatedAt:     mod.CreatedAt,
	}
}

func (m *AudioChunkMapper) ToModel(e *entity.AudioChunk) *model.AudioChunk {
	return &model.AudioChunk{
		Id:            e.Id,
		SourceAudioId: e.SourceAudioId,
		ChunkIndex:    e.ChunkIndex,
		Title:         e.Title,
		CreatedAt:     e.CreatedAt,
	}
}
