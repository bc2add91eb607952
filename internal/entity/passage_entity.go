package entity

import "time"

// PassageEmbedding is an indexed documentation passage plus its vector.
// Identity is the content-derived passage ID, so re-indexing unchanged
// documentation replaces rows instead of duplicating them.
type PassageEmbedding struct {
	Id          string // md5 fingerprint from the chunker
	Document    string // Passage text that was embedded
	Embedding   []float32
	Title       string
	TopicType   string
	Audience    string
	FilePath    string
	SectionPath string // Breadcrumb joined with " > "
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
