package agent

import (
	"context"
	"fmt"
	"strings"

	"lingua-workbench-be/internal/constant"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/pkg/llm"
)

// Router classifies a user message into one of the worker routes.
// Any failure falls back to the general route so the assistant always
// answers something.
type Router struct {
	llm    llm.LLMProvider
	logger logger.ILogger
}

func NewRouter(provider llm.LLMProvider, log logger.ILogger) *Router {
	return &Router{
		llm:    provider,
		logger: log,
	}
}

func (r *Router) Route(ctx context.Context, message string) string {
	prompt := fmt.Sprintf(constant.RouterPrompt, message)

	decision, err := r.llm.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		r.logger.Warn("ROUTER", "Classification failed, falling back to general", map[string]interface{}{
			"error": err.Error(),
		})
		return RouteGeneral
	}

	decision = strings.ToUpper(strings.TrimSpace(decision))
	switch {
	case strings.Contains(decision, "SCRIPT"):
		return RouteScriptEditor
	case strings.Contains(decision, "DOC"):
		return RouteDocQA
	default:
		return RouteGeneral
	}
}
