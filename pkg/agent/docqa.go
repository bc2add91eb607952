package agent

import (
	"context"
	"fmt"
	"strings"

	"lingua-workbench-be/internal/constant"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/pkg/llm"
	"lingua-workbench-be/pkg/vectorindex"
)

const docQATopK = 5

// DocQAAgent answers documentation questions with retrieval-augmented
// generation over the DITA passage index.
type DocQAAgent struct {
	llm    llm.LLMProvider
	index  *vectorindex.Index
	logger logger.ILogger
}

func NewDocQAAgent(provider llm.LLMProvider, index *vectorindex.Index, log logger.ILogger) *DocQAAgent {
	return &DocQAAgent{
		llm:    provider,
		index:  index,
		logger: log,
	}
}

// Answer retrieves context for the query and generates a grounded reply.
// Retrieval failure degrades to an answer without context rather than
// failing the turn.
func (a *DocQAAgent) Answer(ctx context.Context, history []llm.Message, query, audience string) (string, []Source, error) {
	messages, sources := a.prepare(ctx, history, query, audience)

	answer, err := a.llm.Chat(ctx, messages)
	if err != nil {
		return "", nil, err
	}
	return answer, sources, nil
}

// AnswerStream is Answer with token streaming.
func (a *DocQAAgent) AnswerStream(ctx context.Context, history []llm.Message, query, audience string, onToken llm.TokenFunc) ([]Source, error) {
	messages, sources := a.prepare(ctx, history, query, audience)

	if err := a.llm.ChatStream(ctx, messages, onToken); err != nil {
		return nil, err
	}
	return sources, nil
}

func (a *DocQAAgent) prepare(ctx context.Context, history []llm.Message, query, audience string) ([]llm.Message, []Source) {
	results, err := a.index.Search(ctx, query, docQATopK, audience)
	if err != nil {
		a.logger.Warn("DOC_QA", "Retrieval failed, answering without context", map[string]interface{}{
			"error": err.Error(),
		})
		results = nil
	}

	systemPrompt := fmt.Sprintf(constant.DocQAPrompt, FormatContext(results))

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: query})

	return messages, ExtractSources(results)
}

// FormatContext renders retrieved passages as a numbered context block.
func FormatContext(results []*vectorindex.Result) string {
	if len(results) == 0 {
		return "No relevant documentation found."
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		heading := r.Passage.SectionPath
		if heading == "" {
			heading = r.Passage.Title
		}
		parts = append(parts, fmt.Sprintf("[Document %d: %s]\n%s", i+1, heading, r.Passage.Document))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// ExtractSources lists the contributing topics, one entry per file.
func ExtractSources(results []*vectorindex.Result) []Source {
	var sources []Source
	seen := make(map[string]bool)

	for _, r := range results {
		path := r.Passage.FilePath
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		topicType := r.Passage.TopicType
		if topicType == "" {
			topicType = "topic"
		}
		sources = append(sources, Source{
			Title:     r.Passage.Title,
			Path:      path,
			TopicType: topicType,
		})
	}
	return sources
}
