package entity

import "time"

// Script line types
const (
	LineTypeDialogue = "dialogue"
	LineTypeAction   = "action"
	LineTypeScene    = "scene"
)

// ManualInsertIndex marks lines created by the assistant rather than
// bulk import. Import order indexes are always >= 0.
const ManualInsertIndex = -1

// ScriptLine is one line of an episode script: dialogue, an action
// note, or a scene heading. Lines live inside an AudioChunk and are
// displayed in SortOrder; Index preserves the original import order and
// is never reassigned.
type ScriptLine struct {
	Id         int64
	ChunkId    int64
	Index      int     // Original import order, immutable; -1 = manually inserted
	SortOrder  float64 // Display order; fractional values support O(1) insertion
	LineType   string  // dialogue, action, scene
	Speaker    string  // Only meaningful for dialogue
	Text       string  // Clean display text (no action parentheses)
	TextZh     string  // Chinese translation
	ActionNote string  // Inline stage direction
	RawText    string  // Canonical rendering, derived from Speaker + Text
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ComposeRawText derives the canonical rendering from speaker and text.
// It must be recomputed whenever either source field changes.
func ComposeRawText(speaker, text string) string {
	if speaker != "" {
		return speaker + ": " + text
	}
	return text
}

// AudioChunk is an ordered segment of one episode's audio. Chunks of
// the same SourceAudio form a chain ordered by ChunkIndex; script lines
// flow between adjacent chunks via split operations.
type AudioChunk struct {
	Id            int64
	SourceAudioId int64
	ChunkIndex    int
	Title         string
	CreatedAt     time.Time
}
