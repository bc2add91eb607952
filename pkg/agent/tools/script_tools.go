package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/internal/repository/specification"
	"lingua-workbench-be/internal/repository/unitofwork"
	"lingua-workbench-be/pkg/llm"
)

// ScriptTools exposes the script editing operations to the agent.
// Every handler returns a human readable report; database errors and
// bad arguments come back as "Error: ..." strings the model can react to.
type ScriptTools struct {
	factory unitofwork.RepositoryFactory
	logger  logger.ILogger
}

func NewScriptTools(factory unitofwork.RepositoryFactory, log logger.ILogger) *ScriptTools {
	return &ScriptTools{
		factory: factory,
		logger:  log,
	}
}

// BuildRegistry wires all script tools into a fresh registry.
func (s *ScriptTools) BuildRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Tool{Schema: getSurroundingLinesSchema, Execute: s.GetSurroundingLines})
	r.Register(&Tool{Schema: insertScriptLineSchema, Execute: s.InsertScriptLine})
	r.Register(&Tool{Schema: editScriptLineSchema, Execute: s.EditScriptLine})
	r.Register(&Tool{Schema: splitScriptLineSchema, Execute: s.SplitScriptLine})
	return r
}

var getSurroundingLinesSchema = llm.ToolSchema{
	Name: "get_surrounding_lines",
	Description: "Fetch surrounding script lines for context. Returns the lines around " +
		"the reference line (same chunk, in display order). Use this BEFORE modifying " +
		"anything to understand the context and infer speaker, line_type, and content style.",
	Parameters: json.RawMessage(`{
		"type": "object",
		"properties": {
			"line_id": {"type": "integer", "description": "The ID of the reference script line."},
			"radius": {"type": "integer", "description": "Number of lines above and below to include (default 3)."}
		},
		"required": ["line_id"]
	}`),
}

type getSurroundingLinesArgs struct {
	LineId int64 `json:"line_id"`
	Radius int   `json:"radius"`
}

func (s *ScriptTools) GetSurroundingLines(ctx context.Context, raw []byte) string {
	var args getSurroundingLinesArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %v.", err)
	}
	if args.Radius <= 0 {
		args.Radius = 3
	}

	uow := s.factory.NewUnitOfWork(ctx)
	lineRepo := uow.ScriptLineRepository()

	refLine, err := lineRepo.FindOne(ctx, specification.ByID{ID: args.LineId})
	if err != nil {
		return fmt.Sprintf("Error: failed to load line: %v.", err)
	}
	if refLine == nil {
		return fmt.Sprintf("Error: ScriptLine with id=%d not found.", args.LineId)
	}

	siblings, err := lineRepo.FindByChunkOrdered(ctx, refLine.ChunkId)
	if err != nil {
		return fmt.Sprintf("Error: failed to load chunk lines: %v.", err)
	}

	refIdx := -1
	for i, line := range siblings {
		if line.Id == refLine.Id {
			refIdx = i
			break
		}
	}
	if refIdx == -1 {
		return fmt.Sprintf("Error: could not locate line %d among its siblings.", args.LineId)
	}

	start := refIdx - args.Radius
	if start < 0 {
		start = 0
	}
	end := refIdx + args.Radius + 1
	if end > len(siblings) {
		end = len(siblings)
	}

	var lines []string
	for _, line := range siblings[start:end] {
		marker := ""
		if line.Id == refLine.Id {
			marker = " <<<"
		}
		speaker := line.Speaker
		if speaker == "" {
			speaker = "(no speaker)"
		}
		zh := ""
		if line.TextZh != "" {
			zh = " | zh: " + line.TextZh
		}
		lines = append(lines, fmt.Sprintf("[ID:%d | order:%s | type:%s] %s: %s%s%s",
			line.Id, formatOrder(line.SortOrder), line.LineType, speaker, line.Text, zh, marker))
	}

	chunkRepo := uow.AudioChunkRepository()
	chunk, err := chunkRepo.FindOne(ctx, specification.ByID{ID: refLine.ChunkId})
	if err != nil || chunk == nil {
		return fmt.Sprintf("Error: failed to load chunk %d.", refLine.ChunkId)
	}

	prevInfo := "prev_chunk=None (first chunk)"
	if prev, err := chunkRepo.FindAdjacent(ctx, chunk.SourceAudioId, chunk.ChunkIndex-1); err == nil && prev != nil {
		prevInfo = fmt.Sprintf("prev_chunk_id=%d", prev.Id)
	}
	nextInfo := "next_chunk=None (last chunk)"
	if next, err := chunkRepo.FindAdjacent(ctx, chunk.SourceAudioId, chunk.ChunkIndex+1); err == nil && next != nil {
		nextInfo = fmt.Sprintf("next_chunk_id=%d", next.Id)
	}

	header := fmt.Sprintf("Context around line #%d (chunk_id=%d, %s, %s, showing %d lines):\n",
		args.LineId, refLine.ChunkId, prevInfo, nextInfo, len(lines))
	return header + strings.Join(lines, "\n")
}

var insertScriptLineSchema = llm.ToolSchema{
	Name: "insert_script_line",
	Description: "Insert a new script line before or after a reference line. " +
		"IMPORTANT: Always call get_surrounding_lines first to understand context.",
	Parameters: json.RawMessage(`{
		"type": "object",
		"properties": {
			"chunk_id": {"type": "integer", "description": "The chunk this line belongs to (get from surrounding context)."},
			"reference_line_id": {"type": "integer", "description": "The ID of the existing line to insert relative to."},
			"position": {"type": "string", "enum": ["before", "after"], "description": "Where to insert relative to the reference line."},
			"speaker": {"type": "string", "description": "Speaker name. Required for dialogue."},
			"text": {"type": "string", "description": "The clean English text of the line."},
			"text_zh": {"type": "string", "description": "Chinese translation (generate one if the user didn't provide it)."},
			"line_type": {"type": "string", "enum": ["dialogue", "action", "scene"], "description": "Line type (default: dialogue)."},
			"action_note": {"type": "string", "description": "Optional action/stage direction in parentheses."}
		},
		"required": ["chunk_id", "reference_line_id", "position", "speaker", "text"]
	}`),
}

type insertScriptLineArgs struct {
	ChunkId         int64  `json:"chunk_id"`
	ReferenceLineId int64  `json:"reference_line_id"`
	Position        string `json:"position"`
	Speaker         string `json:"speaker"`
	Text            string `json:"text"`
	TextZh          string `json:"text_zh"`
	LineType        string `json:"line_type"`
	ActionNote      string `json:"action_note"`
}

func (s *ScriptTools) InsertScriptLine(ctx context.Context, raw []byte) string {
	var args insertScriptLineArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %v.", err)
	}
	if args.Position != "before" && args.Position != "after" {
		return "Error: position must be 'before' or 'after'."
	}
	if args.LineType == "" {
		args.LineType = entity.LineTypeDialogue
	}

	uow := s.factory.NewUnitOfWork(ctx)
	lineRepo := uow.ScriptLineRepository()

	refLine, err := lineRepo.FindOne(ctx, specification.ByID{ID: args.ReferenceLineId})
	if err != nil {
		return fmt.Sprintf("Error: failed to load line: %v.", err)
	}
	if refLine == nil {
		return fmt.Sprintf("Error: ScriptLine with id=%d not found.", args.ReferenceLineId)
	}

	siblings, err := lineRepo.FindByChunkOrdered(ctx, refLine.ChunkId)
	if err != nil {
		return fmt.Sprintf("Error: failed to load chunk lines: %v.", err)
	}

	refIdx := -1
	for i, line := range siblings {
		if line.Id == refLine.Id {
			refIdx = i
			break
		}
	}
	if refIdx == -1 {
		return fmt.Sprintf("Error: could not locate reference line %d in its chunk.", args.ReferenceLineId)
	}

	newOrder := insertionOrder(siblings, refIdx, args.Position)

	speaker := args.Speaker
	if args.LineType != entity.LineTypeDialogue {
		speaker = ""
	}

	newLine := &entity.ScriptLine{
		ChunkId:    args.ChunkId,
		Index:      entity.ManualInsertIndex,
		SortOrder:  newOrder,
		LineType:   args.LineType,
		Speaker:    speaker,
		Text:       args.Text,
		TextZh:     args.TextZh,
		ActionNote: args.ActionNote,
		RawText:    entity.ComposeRawText(args.Speaker, args.Text),
	}
	if err := lineRepo.Create(ctx, newLine); err != nil {
		return fmt.Sprintf("Error: failed to insert line: %v.", err)
	}

	s.logger.Info("SCRIPT_TOOLS", "Inserted script line", map[string]interface{}{
		"line_id":  newLine.Id,
		"chunk_id": args.ChunkId,
		"order":    newOrder,
	})

	return fmt.Sprintf("Successfully inserted new line!\n  ID: %d\n  Order: %s\n  Position: %s line #%d\n  Speaker: %s\n  Text: %s\n  Text (zh): %s",
		newLine.Id, formatOrder(newOrder), args.Position, args.ReferenceLineId, args.Speaker, args.Text, args.TextZh)
}

// insertionOrder computes the fractional sort order for a line placed
// before or after the sibling at refIdx. Between two lines the midpoint
// is used; past either end the boundary is extended by 1.0.
func insertionOrder(siblings []*entity.ScriptLine, refIdx int, position string) float64 {
	refOrder := siblings[refIdx].SortOrder
	if position == "before" {
		if refIdx == 0 {
			return refOrder - 1.0
		}
		return (siblings[refIdx-1].SortOrder + refOrder) / 2.0
	}
	if refIdx == len(siblings)-1 {
		return refOrder + 1.0
	}
	return (refOrder + siblings[refIdx+1].SortOrder) / 2.0
}

var editScriptLineSchema = llm.ToolSchema{
	Name: "edit_script_line",
	Description: "Edit an existing script line. Only provided fields will be updated. " +
		"Use this to fix errors in the script: wrong speaker, typos, missing translations, etc.",
	Parameters: json.RawMessage(`{
		"type": "object",
		"properties": {
			"line_id": {"type": "integer", "description": "The ID of the script line to edit."},
			"speaker": {"type": "string", "description": "New speaker name (optional)."},
			"text": {"type": "string", "description": "New English text (optional)."},
			"text_zh": {"type": "string", "description": "New Chinese translation (optional)."},
			"line_type": {"type": "string", "enum": ["dialogue", "action", "scene"], "description": "New line type (optional)."},
			"action_note": {"type": "string", "description": "New action note (optional)."}
		},
		"required": ["line_id"]
	}`),
}

type editScriptLineArgs struct {
	LineId     int64   `json:"line_id"`
	Speaker    *string `json:"speaker"`
	Text       *string `json:"text"`
	TextZh     *string `json:"text_zh"`
	LineType   *string `json:"line_type"`
	ActionNote *string `json:"action_note"`
}

func (s *ScriptTools) EditScriptLine(ctx context.Context, raw []byte) string {
	var args editScriptLineArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %v.", err)
	}

	uow := s.factory.NewUnitOfWork(ctx)
	lineRepo := uow.ScriptLineRepository()

	line, err := lineRepo.FindOne(ctx, specification.ByID{ID: args.LineId})
	if err != nil {
		return fmt.Sprintf("Error: failed to load line: %v.", err)
	}
	if line == nil {
		return fmt.Sprintf("Error: ScriptLine with id=%d not found.", args.LineId)
	}

	var changes []string

	if args.Speaker != nil && *args.Speaker != line.Speaker {
		changes = append(changes, fmt.Sprintf("  speaker: '%s' -> '%s'", line.Speaker, *args.Speaker))
		line.Speaker = *args.Speaker
	}
	if args.Text != nil && *args.Text != line.Text {
		changes = append(changes, fmt.Sprintf("  text: '%s...' -> '%s...'", truncate(line.Text, 50), truncate(*args.Text, 50)))
		line.Text = *args.Text
	}
	if args.TextZh != nil && *args.TextZh != line.TextZh {
		oldZh := line.TextZh
		if oldZh == "" {
			oldZh = "(empty)"
		}
		changes = append(changes, fmt.Sprintf("  text_zh: '%s' -> '%s'", truncate(oldZh, 50), truncate(*args.TextZh, 50)))
		line.TextZh = *args.TextZh
	}
	if args.LineType != nil && *args.LineType != line.LineType {
		changes = append(changes, fmt.Sprintf("  line_type: '%s' -> '%s'", line.LineType, *args.LineType))
		line.LineType = *args.LineType
	}
	if args.ActionNote != nil && *args.ActionNote != line.ActionNote {
		oldNote := line.ActionNote
		if oldNote == "" {
			oldNote = "(empty)"
		}
		changes = append(changes, fmt.Sprintf("  action_note: '%s' -> '%s'", truncate(oldNote, 50), truncate(*args.ActionNote, 50)))
		line.ActionNote = *args.ActionNote
	}

	if len(changes) == 0 {
		return fmt.Sprintf("No changes detected for line #%d. Nothing was updated.", args.LineId)
	}

	if args.Speaker != nil || args.Text != nil {
		line.RawText = entity.ComposeRawText(line.Speaker, line.Text)
		changes = append(changes, fmt.Sprintf("  raw_text: auto-synced -> '%s...'", truncate(line.RawText, 60)))
	}

	if err := lineRepo.Update(ctx, line); err != nil {
		return fmt.Sprintf("Error: failed to update line: %v.", err)
	}

	s.logger.Info("SCRIPT_TOOLS", "Edited script line", map[string]interface{}{
		"line_id": args.LineId,
		"changes": len(changes),
	})

	return fmt.Sprintf("Successfully updated line #%d:\n%s", args.LineId, strings.Join(changes, "\n"))
}

var splitScriptLineSchema = llm.ToolSchema{
	Name: "split_script_line",
	Description: "Split a long script line into two lines. The original line is truncated to " +
		"keep_text (staying in its current chunk). A new line with remaining_text is inserted " +
		"into target_chunk_id and inherits speaker, line_type, and action_note from the original. " +
		"IMPORTANT: Always call get_surrounding_lines first to read the full text.",
	Parameters: json.RawMessage(`{
		"type": "object",
		"properties": {
			"line_id": {"type": "integer", "description": "The ID of the script line to split."},
			"keep_text": {"type": "string", "description": "The English text to KEEP in the original line."},
			"remaining_text": {"type": "string", "description": "The English text to move to the new line."},
			"target_chunk_id": {"type": "integer", "description": "The chunk ID where the new line should go."},
			"keep_text_zh": {"type": "string", "description": "Chinese translation for the kept text (generate one)."},
			"remaining_text_zh": {"type": "string", "description": "Chinese translation for the remaining text (generate one)."}
		},
		"required": ["line_id", "keep_text", "remaining_text", "target_chunk_id"]
	}`),
}

type splitScriptLineArgs struct {
	LineId          int64  `json:"line_id"`
	KeepText        string `json:"keep_text"`
	RemainingText   string `json:"remaining_text"`
	TargetChunkId   int64  `json:"target_chunk_id"`
	KeepTextZh      string `json:"keep_text_zh"`
	RemainingTextZh string `json:"remaining_text_zh"`
}

func (s *ScriptTools) SplitScriptLine(ctx context.Context, raw []byte) string {
	var args splitScriptLineArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %v.", err)
	}

	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Sprintf("Error: failed to start transaction: %v.", err)
	}
	defer uow.Rollback()

	lineRepo := uow.ScriptLineRepository()
	chunkRepo := uow.AudioChunkRepository()

	line, err := lineRepo.FindOne(ctx, specification.ByID{ID: args.LineId})
	if err != nil {
		return fmt.Sprintf("Error: failed to load line: %v.", err)
	}
	if line == nil {
		return fmt.Sprintf("Error: ScriptLine with id=%d not found.", args.LineId)
	}

	targetChunk, err := chunkRepo.FindOne(ctx, specification.ByID{ID: args.TargetChunkId})
	if err != nil {
		return fmt.Sprintf("Error: failed to load chunk: %v.", err)
	}
	if targetChunk == nil {
		return fmt.Sprintf("Error: AudioChunk with id=%d not found.", args.TargetChunkId)
	}

	sourceChunk, err := chunkRepo.FindOne(ctx, specification.ByID{ID: line.ChunkId})
	if err != nil || sourceChunk == nil {
		return fmt.Sprintf("Error: failed to load chunk %d.", line.ChunkId)
	}

	// Truncate the original line.
	line.Text = args.KeepText
	if args.KeepTextZh != "" {
		line.TextZh = args.KeepTextZh
	}
	line.RawText = entity.ComposeRawText(line.Speaker, args.KeepText)
	if err := lineRepo.Update(ctx, line); err != nil {
		return fmt.Sprintf("Error: failed to update original line: %v.", err)
	}

	// Place the new line inside the target chunk. Moving backward in the
	// chain appends at the end; moving forward (or staying) prepends.
	var newOrder float64
	if targetChunk.ChunkIndex < sourceChunk.ChunkIndex {
		last, ok, err := lineRepo.BoundarySortOrder(ctx, targetChunk.Id, true)
		if err != nil {
			return fmt.Sprintf("Error: failed to inspect target chunk: %v.", err)
		}
		if ok {
			newOrder = last + 1.0
		}
	} else {
		first, ok, err := lineRepo.BoundarySortOrder(ctx, targetChunk.Id, false)
		if err != nil {
			return fmt.Sprintf("Error: failed to inspect target chunk: %v.", err)
		}
		if ok {
			newOrder = first - 1.0
		}
	}

	newLine := &entity.ScriptLine{
		ChunkId:    targetChunk.Id,
		Index:      entity.ManualInsertIndex,
		SortOrder:  newOrder,
		LineType:   line.LineType,
		Speaker:    line.Speaker,
		Text:       args.RemainingText,
		TextZh:     args.RemainingTextZh,
		ActionNote: line.ActionNote,
		RawText:    entity.ComposeRawText(line.Speaker, args.RemainingText),
	}
	if err := lineRepo.Create(ctx, newLine); err != nil {
		return fmt.Sprintf("Error: failed to create new line: %v.", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Sprintf("Error: failed to commit split: %v.", err)
	}

	s.logger.Info("SCRIPT_TOOLS", "Split script line", map[string]interface{}{
		"line_id":     args.LineId,
		"new_line_id": newLine.Id,
		"chunk_id":    targetChunk.Id,
	})

	return fmt.Sprintf("Successfully split line #%d!\n  Original (kept): '%s...'\n  New line #%d in chunk #%d: '%s...'\n  New order: %s",
		args.LineId, truncate(args.KeepText, 60), newLine.Id, args.TargetChunkId, truncate(args.RemainingText, 60), formatOrder(newOrder))
}

func formatOrder(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
