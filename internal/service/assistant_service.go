package service

import (
	"context"

	"lingua-workbench-be/internal/constant"
	"lingua-workbench-be/internal/dto"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/internal/repository/memory"
	"lingua-workbench-be/pkg/agent"
	"lingua-workbench-be/pkg/llm"
	"lingua-workbench-be/pkg/store"
)

// IAgentGraph is the slice of the agent graph the service depends on.
type IAgentGraph interface {
	Run(ctx context.Context, history []llm.Message, query, audience string) (*agent.Result, error)
	RunStream(ctx context.Context, history []llm.Message, query, audience string, onEvent agent.EventFunc) (*agent.Result, error)
}

type IAssistantService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	ChatStream(ctx context.Context, request *dto.ChatRequest, onEvent agent.EventFunc) error
	GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error
}

type assistantService struct {
	graph       IAgentGraph
	sessionRepo *memory.SessionRepository
	logger      logger.ILogger
}

func NewAssistantService(graph IAgentGraph, sessionRepo *memory.SessionRepository, log logger.ILogger) IAssistantService {
	return &assistantService{
		graph:       graph,
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

func (s *assistantService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	session := s.session(request)

	result, err := s.graph.Run(ctx, session.History(), request.Message, session.Audience)
	if err != nil {
		return nil, err
	}

	s.record(session, request.Message, result.Answer)

	return &dto.ChatResponse{
		SessionId: session.ID,
		Route:     result.Route,
		Reply:     result.Answer,
		Sources:   result.Sources,
	}, nil
}

func (s *assistantService) ChatStream(ctx context.Context, request *dto.ChatRequest, onEvent agent.EventFunc) error {
	session := s.session(request)

	result, err := s.graph.RunStream(ctx, session.History(), request.Message, session.Audience, onEvent)
	if err != nil {
		return err
	}

	s.record(session, request.Message, result.Answer)
	return nil
}

func (s *assistantService) GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	response := &dto.GetChatHistoryResponse{
		SessionId: sessionId,
		Messages:  []dto.ChatHistoryEntry{},
	}

	session, found := s.sessionRepo.Get(sessionId)
	if !found {
		return response, nil
	}

	for _, msg := range session.History() {
		response.Messages = append(response.Messages, dto.ChatHistoryEntry{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return response, nil
}

func (s *assistantService) DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error {
	s.sessionRepo.Delete(request.SessionId)
	return nil
}

func (s *assistantService) session(request *dto.ChatRequest) *store.Session {
	audience := request.Audience
	if audience == "" {
		audience = store.AudienceUser
	}
	session := s.sessionRepo.GetOrCreate(request.SessionId, audience)
	session.SetLastQuery(request.Message)
	return session
}

func (s *assistantService) record(session *store.Session, query, answer string) {
	session.Append(
		llm.Message{Role: constant.ChatMessageRoleUser, Content: query},
		llm.Message{Role: constant.ChatMessageRoleModel, Content: answer},
	)
	s.sessionRepo.Save(session)
}
