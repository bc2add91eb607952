package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua-workbench-be/internal/entity"
	"lingua-workbench-be/internal/repository/contract"
	"lingua-workbench-be/pkg/agent/tools"
	"lingua-workbench-be/pkg/embedding"
	"lingua-workbench-be/pkg/llm"
	"lingua-workbench-be/pkg/vectorindex"
)

type fakeLLM struct {
	generateOut   string
	generateErr   error
	chatOut       string
	streamTokens  []string
	toolResponses []*llm.Message
	toolIdx       int
	toolMessages  [][]llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.chatOut, nil
}

func (f *fakeLLM) ChatStream(ctx context.Context, history []llm.Message, onToken llm.TokenFunc, options ...llm.Option) error {
	for _, tok := range f.streamTokens {
		if err := onToken(tok); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeLLM) ChatWithTools(ctx context.Context, history []llm.Message, schemas []llm.ToolSchema, options ...llm.Option) (*llm.Message, error) {
	snapshot := make([]llm.Message, len(history))
	copy(snapshot, history)
	f.toolMessages = append(f.toolMessages, snapshot)

	if f.toolIdx >= len(f.toolResponses) {
		return nil, errors.New("no scripted response left")
	}
	resp := f.toolResponses[f.toolIdx]
	f.toolIdx++
	return resp, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.generateOut, f.generateErr
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func TestRouterMapping(t *testing.T) {
	cases := []struct {
		decision string
		want     string
	}{
		{"SCRIPT_EDIT", RouteScriptEditor},
		{"DOC_QA", RouteDocQA},
		{"GENERAL", RouteGeneral},
		{"  doc_qa  ", RouteDocQA},
		{"I would say SCRIPT_EDIT.", RouteScriptEditor},
		{"no idea", RouteGeneral},
		{"", RouteGeneral},
	}

	for _, tc := range cases {
		router := NewRouter(&fakeLLM{generateOut: tc.decision}, noopLogger{})
		assert.Equal(t, tc.want, router.Route(context.Background(), "hello"), "decision %q", tc.decision)
	}
}

func TestRouterFailSafe(t *testing.T) {
	router := NewRouter(&fakeLLM{generateErr: errors.New("model down")}, noopLogger{})
	assert.Equal(t, RouteGeneral, router.Route(context.Background(), "anything"))
}

func toolCallMsg(name, args string) *llm.Message {
	return &llm.Message{
		Role:      "assistant",
		ToolCalls: []llm.ToolCall{{Name: name, Arguments: json.RawMessage(args)}},
	}
}

func recordingRegistry(executed *[]string) *tools.Registry {
	r := tools.NewRegistry()
	for _, name := range []string{"get_surrounding_lines", "edit_script_line"} {
		name := name
		r.Register(&tools.Tool{
			Schema: llm.ToolSchema{Name: name, Parameters: json.RawMessage(`{}`)},
			Execute: func(ctx context.Context, args []byte) string {
				*executed = append(*executed, name)
				return "ok: " + name
			},
		})
	}
	return r
}

func TestEditorToolLoop(t *testing.T) {
	var executed []string
	provider := &fakeLLM{
		toolResponses: []*llm.Message{
			toolCallMsg("get_surrounding_lines", `{"line_id": 11}`),
			toolCallMsg("edit_script_line", `{"line_id": 11, "text": "fixed"}`),
			{Role: "assistant", Content: "Done, line 11 updated."},
		},
	}
	editor := NewScriptEditorAgent(provider, recordingRegistry(&executed), noopLogger{})

	answer, err := editor.Run(context.Background(), nil, "fix line 11")

	require.NoError(t, err)
	assert.Equal(t, "Done, line 11 updated.", answer)
	assert.Equal(t, []string{"get_surrounding_lines", "edit_script_line"}, executed)

	// Final call carries the full exchange: system, user, two assistant
	// tool requests and their results.
	require.Len(t, provider.toolMessages, 3)
	last := provider.toolMessages[2]
	require.Len(t, last, 6)
	assert.Equal(t, "system", last[0].Role)
	assert.Equal(t, "user", last[1].Role)
	assert.Equal(t, "tool", last[3].Role)
	assert.Equal(t, "ok: get_surrounding_lines", last[3].Content)
	assert.Equal(t, "tool", last[5].Role)
}

func TestEditorCycleLimitFailsClosed(t *testing.T) {
	var executed []string
	responses := make([]*llm.Message, 0, 10)
	for i := 0; i < 10; i++ {
		responses = append(responses, toolCallMsg("get_surrounding_lines", `{"line_id": 1}`))
	}
	provider := &fakeLLM{toolResponses: responses}
	editor := NewScriptEditorAgent(provider, recordingRegistry(&executed), noopLogger{})

	answer, err := editor.Run(context.Background(), nil, "loop forever")

	require.NoError(t, err)
	assert.Equal(t, editorFailClosedReply, answer)
	assert.Len(t, executed, 8)
}

type stubEmbedder struct{}

func (stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0}},
	}, nil
}

func (stubEmbedder) GenerateBatch(texts []string, taskType string) ([][]float32, error) {
	return nil, errors.New("not used")
}

type stubPassageRepo struct {
	out []*contract.ScoredPassage
	err error
}

func (r *stubPassageRepo) Upsert(ctx context.Context, passages []*entity.PassageEmbedding) error {
	return nil
}

func (r *stubPassageRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, audiences []string) ([]*contract.ScoredPassage, error) {
	return r.out, r.err
}

func (r *stubPassageRepo) DeleteAll(ctx context.Context) error { return nil }
func (r *stubPassageRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.out)), nil
}

func docIndex(repo *stubPassageRepo) *vectorindex.Index {
	return vectorindex.NewIndex(repo, stubEmbedder{}, noopLogger{})
}

func TestGraphStreamDocQA(t *testing.T) {
	repo := &stubPassageRepo{
		out: []*contract.ScoredPassage{
			{Passage: &entity.PassageEmbedding{
				Id: "p1", Document: "Click Import.", Title: "Importing audio",
				TopicType: "task", FilePath: "tasks/import.dita", SectionPath: "Importing audio > Steps",
			}, Similarity: 0.9},
		},
	}
	provider := &fakeLLM{
		generateOut:  "DOC_QA",
		streamTokens: []string{"Click ", "Import."},
	}
	graph := NewGraph(
		NewRouter(provider, noopLogger{}),
		NewDocQAAgent(provider, docIndex(repo), noopLogger{}),
		NewScriptEditorAgent(provider, tools.NewRegistry(), noopLogger{}),
		NewGeneralAgent(provider),
		noopLogger{},
	)

	var events []Event
	result, err := graph.RunStream(context.Background(), nil, "how do I import audio?", "user", func(e Event) error {
		events = append(events, e)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, RouteDocQA, result.Route)
	assert.Equal(t, "Click Import.", result.Answer)

	require.Len(t, events, 4)
	assert.Equal(t, EventToken, events[0].Type)
	assert.Equal(t, EventToken, events[1].Type)
	assert.Equal(t, EventSources, events[2].Type)
	require.Len(t, events[2].Sources, 1)
	assert.Equal(t, "tasks/import.dita", events[2].Sources[0].Path)
	assert.Equal(t, EventDone, events[3].Type)
}

func TestGraphStreamEditorEmitsSingleToken(t *testing.T) {
	provider := &fakeLLM{
		generateOut: "SCRIPT_EDIT",
		toolResponses: []*llm.Message{
			{Role: "assistant", Content: "Nothing to change."},
		},
	}
	graph := NewGraph(
		NewRouter(provider, noopLogger{}),
		NewDocQAAgent(provider, docIndex(&stubPassageRepo{}), noopLogger{}),
		NewScriptEditorAgent(provider, tools.NewRegistry(), noopLogger{}),
		NewGeneralAgent(provider),
		noopLogger{},
	)

	var events []Event
	result, err := graph.RunStream(context.Background(), nil, "edit line 5", "developer", func(e Event) error {
		events = append(events, e)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, RouteScriptEditor, result.Route)
	require.Len(t, events, 2)
	assert.Equal(t, EventToken, events[0].Type)
	assert.Equal(t, "Nothing to change.", events[0].Content)
	assert.Equal(t, EventDone, events[1].Type)
}

func TestGraphRunGeneralFallback(t *testing.T) {
	provider := &fakeLLM{
		generateErr: errors.New("router down"),
		chatOut:     "Hi there!",
	}
	graph := NewGraph(
		NewRouter(provider, noopLogger{}),
		NewDocQAAgent(provider, docIndex(&stubPassageRepo{}), noopLogger{}),
		NewScriptEditorAgent(provider, tools.NewRegistry(), noopLogger{}),
		NewGeneralAgent(provider),
		noopLogger{},
	)

	result, err := graph.Run(context.Background(), nil, "hello", "user")

	require.NoError(t, err)
	assert.Equal(t, RouteGeneral, result.Route)
	assert.Equal(t, "Hi there!", result.Answer)
}

func TestFormatContext(t *testing.T) {
	assert.Equal(t, "No relevant documentation found.", FormatContext(nil))

	results := []*vectorindex.Result{
		{Passage: &entity.PassageEmbedding{Document: "First.", SectionPath: "Setup > Install"}},
		{Passage: &entity.PassageEmbedding{Document: "Second.", Title: "Overview"}},
	}
	got := FormatContext(results)
	assert.Contains(t, got, "[Document 1: Setup > Install]\nFirst.")
	assert.Contains(t, got, "[Document 2: Overview]\nSecond.")
	assert.Contains(t, got, "\n\n---\n\n")
}

func TestExtractSourcesDedup(t *testing.T) {
	results := []*vectorindex.Result{
		{Passage: &entity.PassageEmbedding{Title: "Importing", FilePath: "tasks/import.dita", TopicType: "task"}},
		{Passage: &entity.PassageEmbedding{Title: "Importing", FilePath: "tasks/import.dita", TopicType: "task"}},
		{Passage: &entity.PassageEmbedding{Title: "Overview", FilePath: "concepts/overview.dita"}},
		{Passage: &entity.PassageEmbedding{Title: "Orphan"}},
	}

	sources := ExtractSources(results)

	require.Len(t, sources, 2)
	assert.Equal(t, "tasks/import.dita", sources[0].Path)
	assert.Equal(t, "concepts/overview.dita", sources[1].Path)
	assert.Equal(t, "topic", sources[1].TopicType)
}

// RetrievalDegradation: a failing index must not fail the turn.
func TestDocQAAnswersWhenRetrievalFails(t *testing.T) {
	repo := &stubPassageRepo{err: errors.New("db offline")}
	provider := &fakeLLM{chatOut: "I don't have documentation handy, but..."}
	agent := NewDocQAAgent(provider, docIndex(repo), noopLogger{})

	answer, sources, err := agent.Answer(context.Background(), nil, "how do I import?", "user")

	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	assert.Empty(t, sources)
}
