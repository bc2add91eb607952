package agent

import (
	"context"

	"lingua-workbench-be/internal/constant"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/pkg/agent/tools"
	"lingua-workbench-be/pkg/llm"
)

// maxToolCycles bounds the reason/act loop so a confused model cannot
// spin forever against the database.
const maxToolCycles = 8

const editorFailClosedReply = "I could not complete the requested script edit. " +
	"Please try rephrasing the request or break it into smaller steps."

// ScriptEditorAgent executes script editing requests through a
// tool-calling loop: the model reads context, mutates lines, and
// finally reports what it did.
type ScriptEditorAgent struct {
	llm      llm.LLMProvider
	registry *tools.Registry
	logger   logger.ILogger
}

func NewScriptEditorAgent(provider llm.LLMProvider, registry *tools.Registry, log logger.ILogger) *ScriptEditorAgent {
	return &ScriptEditorAgent{
		llm:      provider,
		registry: registry,
		logger:   log,
	}
}

func (a *ScriptEditorAgent) Run(ctx context.Context, history []llm.Message, query string) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: constant.ScriptEditorPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: query})

	schemas := a.registry.Schemas()

	for cycle := 0; cycle < maxToolCycles; cycle++ {
		response, err := a.llm.ChatWithTools(ctx, messages, schemas, llm.WithTemperature(0))
		if err != nil {
			return "", err
		}

		if !response.HasToolCalls() {
			return response.Content, nil
		}

		messages = append(messages, *response)

		for _, call := range response.ToolCalls {
			result := a.registry.Execute(ctx, call)
			a.logger.Debug("SCRIPT_EDITOR", "Tool executed", map[string]interface{}{
				"tool":  call.Name,
				"cycle": cycle,
			})
			messages = append(messages, llm.Message{
				Role:     constant.ChatMessageRoleTool,
				Content:  result,
				ToolName: call.Name,
			})
		}
	}

	a.logger.Warn("SCRIPT_EDITOR", "Tool cycle limit reached", map[string]interface{}{
		"max_cycles": maxToolCycles,
	})
	return editorFailClosedReply, nil
}
