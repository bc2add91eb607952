package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua-workbench-be/internal/dto"
	"lingua-workbench-be/internal/repository/memory"
	"lingua-workbench-be/pkg/agent"
	"lingua-workbench-be/pkg/llm"
	"lingua-workbench-be/pkg/store"
)

type fakeGraph struct {
	result *agent.Result
	events []agent.Event

	mu          sync.Mutex
	gotHistory  []llm.Message
	gotAudience string
}

func (f *fakeGraph) Run(ctx context.Context, history []llm.Message, query, audience string) (*agent.Result, error) {
	f.mu.Lock()
	f.gotHistory = append([]llm.Message(nil), history...)
	f.gotAudience = audience
	f.mu.Unlock()
	return f.result, nil
}

func (f *fakeGraph) RunStream(ctx context.Context, history []llm.Message, query, audience string, onEvent agent.EventFunc) (*agent.Result, error) {
	f.mu.Lock()
	f.gotHistory = append([]llm.Message(nil), history...)
	f.gotAudience = audience
	f.mu.Unlock()
	for _, e := range f.events {
		if err := onEvent(e); err != nil {
			return nil, err
		}
	}
	return f.result, nil
}

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }

func TestChatRecordsHistory(t *testing.T) {
	graph := &fakeGraph{result: &agent.Result{Route: agent.RouteGeneral, Answer: "Hello!"}}
	svc := NewAssistantService(graph, memory.NewSessionRepository(), testLogger{})

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		SessionId: "s1", Message: "hi",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello!", res.Reply)
	assert.Equal(t, agent.RouteGeneral, res.Route)
	// Unset audience defaults to end user.
	assert.Equal(t, store.AudienceUser, graph.gotAudience)
	assert.Empty(t, graph.gotHistory)

	history, err := svc.GetChatHistory(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "user", history.Messages[0].Role)
	assert.Equal(t, "hi", history.Messages[0].Content)
	assert.Equal(t, "model", history.Messages[1].Role)
	assert.Equal(t, "Hello!", history.Messages[1].Content)
}

func TestChatFeedsHistoryBack(t *testing.T) {
	graph := &fakeGraph{result: &agent.Result{Route: agent.RouteGeneral, Answer: "again"}}
	svc := NewAssistantService(graph, memory.NewSessionRepository(), testLogger{})

	_, err := svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s1", Message: "first", Audience: "developer"})
	require.NoError(t, err)
	_, err = svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s1", Message: "second"})
	require.NoError(t, err)

	require.Len(t, graph.gotHistory, 2)
	assert.Equal(t, "first", graph.gotHistory[0].Content)
	// Audience sticks to the session from its first turn.
	assert.Equal(t, "developer", graph.gotAudience)
}

func TestHistoryIsBounded(t *testing.T) {
	graph := &fakeGraph{result: &agent.Result{Route: agent.RouteGeneral, Answer: "ok"}}
	svc := NewAssistantService(graph, memory.NewSessionRepository(), testLogger{})

	for i := 0; i < 30; i++ {
		_, err := svc.Chat(context.Background(), &dto.ChatRequest{
			SessionId: "s1", Message: fmt.Sprintf("turn %d", i),
		})
		require.NoError(t, err)
	}

	history, err := svc.GetChatHistory(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, history.Messages, store.MaxHistoryMessages)
	assert.Equal(t, "turn 29", history.Messages[len(history.Messages)-2].Content)
}

func TestConcurrentChatsShareOneSession(t *testing.T) {
	graph := &fakeGraph{result: &agent.Result{Route: agent.RouteGeneral, Answer: "ok"}}
	svc := NewAssistantService(graph, memory.NewSessionRepository(), testLogger{})

	const turns = 16
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Chat(context.Background(), &dto.ChatRequest{
				SessionId: "s1", Message: fmt.Sprintf("turn %d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every turn landed on the same session; 16 exchanges capped at the
	// history bound.
	history, err := svc.GetChatHistory(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, history.Messages, store.MaxHistoryMessages)
}

func TestChatStreamRecordsAnswer(t *testing.T) {
	graph := &fakeGraph{
		result: &agent.Result{Route: agent.RouteDocQA, Answer: "streamed answer"},
		events: []agent.Event{
			{Type: agent.EventToken, Content: "streamed "},
			{Type: agent.EventToken, Content: "answer"},
			{Type: agent.EventDone},
		},
	}
	svc := NewAssistantService(graph, memory.NewSessionRepository(), testLogger{})

	var got []agent.Event
	err := svc.ChatStream(context.Background(), &dto.ChatRequest{SessionId: "s2", Message: "how?"}, func(e agent.Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, got, 3)

	history, err := svc.GetChatHistory(context.Background(), "s2")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "streamed answer", history.Messages[1].Content)
}

func TestDeleteSession(t *testing.T) {
	graph := &fakeGraph{result: &agent.Result{Route: agent.RouteGeneral, Answer: "hi"}}
	repo := memory.NewSessionRepository()
	svc := NewAssistantService(graph, repo, testLogger{})

	_, err := svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "s3", Message: "hello"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(context.Background(), &dto.DeleteSessionRequest{SessionId: "s3"}))

	history, err := svc.GetChatHistory(context.Background(), "s3")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
}
