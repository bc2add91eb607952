package agent

import (
	"context"

	"lingua-workbench-be/internal/constant"
	"lingua-workbench-be/pkg/llm"
)

// GeneralAgent handles greetings and anything the other routes don't cover.
type GeneralAgent struct {
	llm llm.LLMProvider
}

func NewGeneralAgent(provider llm.LLMProvider) *GeneralAgent {
	return &GeneralAgent{llm: provider}
}

func (a *GeneralAgent) Reply(ctx context.Context, history []llm.Message, query string) (string, error) {
	return a.llm.Chat(ctx, a.messages(history, query), llm.WithTemperature(0.7))
}

func (a *GeneralAgent) ReplyStream(ctx context.Context, history []llm.Message, query string, onToken llm.TokenFunc) error {
	return a.llm.ChatStream(ctx, a.messages(history, query), onToken, llm.WithTemperature(0.7))
}

func (a *GeneralAgent) messages(history []llm.Message, query string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: constant.GeneralChatPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: query})
	return messages
}
