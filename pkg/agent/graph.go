package agent

import (
	"context"

	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/pkg/llm"
)

// Graph is the supervisor: it routes each user turn to one worker agent
// and collects the answer.
type Graph struct {
	router  *Router
	docQA   *DocQAAgent
	editor  *ScriptEditorAgent
	general *GeneralAgent
	logger  logger.ILogger
}

func NewGraph(router *Router, docQA *DocQAAgent, editor *ScriptEditorAgent, general *GeneralAgent, log logger.ILogger) *Graph {
	return &Graph{
		router:  router,
		docQA:   docQA,
		editor:  editor,
		general: general,
		logger:  log,
	}
}

// Run executes one turn and returns the complete answer.
func (g *Graph) Run(ctx context.Context, history []llm.Message, query, audience string) (*Result, error) {
	route := g.router.Route(ctx, query)
	g.logger.Info("AGENT_GRAPH", "Routed user turn", map[string]interface{}{
		"route": route,
	})

	switch route {
	case RouteDocQA:
		answer, sources, err := g.docQA.Answer(ctx, history, query, audience)
		if err != nil {
			return nil, err
		}
		return &Result{Route: route, Answer: answer, Sources: sources}, nil

	case RouteScriptEditor:
		answer, err := g.editor.Run(ctx, history, query)
		if err != nil {
			return nil, err
		}
		return &Result{Route: route, Answer: answer}, nil

	default:
		answer, err := g.general.Reply(ctx, history, query)
		if err != nil {
			return nil, err
		}
		return &Result{Route: RouteGeneral, Answer: answer}, nil
	}
}

// RunStream executes one turn, delivering tokens as they arrive.
// Documentation answers are followed by a sources event; the editor
// route runs its tool loop to completion and emits the summary as a
// single token. A done event always closes a successful run.
func (g *Graph) RunStream(ctx context.Context, history []llm.Message, query, audience string, onEvent EventFunc) (*Result, error) {
	route := g.router.Route(ctx, query)
	g.logger.Info("AGENT_GRAPH", "Routed user turn", map[string]interface{}{
		"route":     route,
		"streaming": true,
	})

	result := &Result{Route: route}
	var answer []byte

	onToken := func(token string) error {
		answer = append(answer, token...)
		return onEvent(Event{Type: EventToken, Content: token})
	}

	switch route {
	case RouteDocQA:
		sources, err := g.docQA.AnswerStream(ctx, history, query, audience, onToken)
		if err != nil {
			return nil, err
		}
		result.Sources = sources
		if len(sources) > 0 {
			if err := onEvent(Event{Type: EventSources, Sources: sources}); err != nil {
				return nil, err
			}
		}

	case RouteScriptEditor:
		text, err := g.editor.Run(ctx, history, query)
		if err != nil {
			return nil, err
		}
		answer = []byte(text)
		if err := onEvent(Event{Type: EventToken, Content: text}); err != nil {
			return nil, err
		}

	default:
		result.Route = RouteGeneral
		if err := g.general.ReplyStream(ctx, history, query, onToken); err != nil {
			return nil, err
		}
	}

	if err := onEvent(Event{Type: EventDone}); err != nil {
		return nil, err
	}

	result.Answer = string(answer)
	return result, nil
}
