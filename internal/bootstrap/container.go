package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"lingua-workbench-be/internal/config"
	"lingua-workbench-be/internal/controller"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/internal/repository/implementation"
	"lingua-workbench-be/internal/repository/memory"
	"lingua-workbench-be/internal/repository/unitofwork"
	"lingua-workbench-be/internal/service"
	"lingua-workbench-be/pkg/agent"
	agenttools "lingua-workbench-be/pkg/agent/tools"
	"lingua-workbench-be/pkg/embedding"
	"lingua-workbench-be/pkg/llm/factory"
	"lingua-workbench-be/pkg/vectorindex"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	IndexController     controller.IIndexController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Vector Index
	passageRepo := implementation.NewPassageEmbeddingRepository(db)
	index := vectorindex.NewIndex(passageRepo, embeddingProvider, sysLogger)

	// 5. Agent Graph
	scriptTools := agenttools.NewScriptTools(uowFactory, sysLogger)
	graph := agent.NewGraph(
		agent.NewRouter(llmProvider, sysLogger),
		agent.NewDocQAAgent(llmProvider, index, sysLogger),
		agent.NewScriptEditorAgent(llmProvider, scriptTools.BuildRegistry(), sysLogger),
		agent.NewGeneralAgent(llmProvider),
		sysLogger,
	)

	// 6. Services
	sessionRepo := memory.NewSessionRepository()
	publisherService := service.NewPublisherService(cfg.Docs.ReindexTopic, pubSub)
	indexService := service.NewIndexService(
		cfg.Docs.Root,
		index,
		publisherService,
		sysLogger,
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.EmbeddingProvider,
	)
	consumerService := service.NewConsumerService(pubSub, cfg.Docs.ReindexTopic, indexService)
	assistantService := service.NewAssistantService(graph, sessionRepo, sysLogger)

	// 7. Controllers
	return &Container{
		AssistantController: controller.NewAssistantController(assistantService, sysLogger),
		IndexController:     controller.NewIndexController(indexService),
		ConsumerService:     consumerService,
		Logger:              sysLogger,
	}
}
