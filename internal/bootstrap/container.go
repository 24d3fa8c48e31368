package bootstrap

import (
	"context"
	"log"

	"borrowed-brain-be/internal/config"
	"borrowed-brain-be/internal/controller"
	"borrowed-brain-be/internal/handler"
	"borrowed-brain-be/internal/pkg/logger"
	"borrowed-brain-be/internal/pkg/mailer"
	"borrowed-brain-be/internal/repository/implementation"
	"borrowed-brain-be/internal/repository/unitofwork"
	"borrowed-brain-be/internal/service"
	"borrowed-brain-be/internal/websocket"
	"borrowed-brain-be/pkg/catalog"
	"borrowed-brain-be/pkg/chunker"
	"borrowed-brain-be/pkg/embedding"
	"borrowed-brain-be/pkg/llm/factory"
	"borrowed-brain-be/pkg/rag"
	"borrowed-brain-be/pkg/transcription"

	pktNats "borrowed-brain-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	PodcastController controller.IPodcastController
	LibraryController controller.ILibraryController
	SyncController    controller.ISyncController
	ChatController    controller.IChatController

	// WebSockets & Sync Status
	SyncStatusHandler *handler.SyncStatusHandler
	WebSocketHub      *websocket.Hub

	// Background infrastructure (Exposed for graceful shutdown)
	JobPublisher  *pktNats.Publisher
	JobSubscriber *pktNats.Subscriber
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Status Bus (in-process fanout)
	watermillLogger := watermill.NewStdLogger(false, false)
	statusBus := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider := embedding.NewProvider(cfg)
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

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

	// 4. External Gateways
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.APISecret)
	transcriptionClient := transcription.NewClient(
		cfg.Transcription.BaseURL,
		cfg.Transcription.APIKey,
		cfg.Transcription.Model,
		cfg.Transcription.Timeout,
	)
	splitter := chunker.New(cfg.Sync.ChunkSize, cfg.Sync.ChunkOverlap)

	// 5. Durable Job Queue (NATS JetStream)
	queueCfg := pktNats.QueueConfig{
		URL:         cfg.App.NatsURL,
		Stream:      cfg.Sync.Stream,
		Subject:     cfg.Sync.Subject,
		Durable:     cfg.Sync.Durable,
		MaxAttempts: cfg.Sync.MaxAttempts,
	}
	jobPub, err := pktNats.NewPublisher(queueCfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect NATS job publisher: %v", err)
	}
	jobSub, err := pktNats.NewSubscriber(queueCfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect NATS job subscriber: %v", err)
	}

	// 6. Redis (websocket cross-instance fanout)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 7. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/sync_status.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 8. Retrieval
	retriever := rag.NewRetriever(
		embeddingProvider,
		implementation.NewTranscriptChunkRepository(db),
		implementation.NewEpisodeRepository(db),
		implementation.NewUserSyncedEpisodeRepository(db),
	)

	// 9. Services
	authService := service.NewAuthService(uowFactory, emailService)
	podcastService := service.NewPodcastService(uowFactory, catalogClient, cfg.Catalog.SearchCache)
	libraryService := service.NewLibraryService(uowFactory, catalogClient)
	syncService := service.NewSyncService(uowFactory, jobPub, statusBus)
	chatService := service.NewChatService(uowFactory, retriever, llmProvider)

	workerService := service.NewSyncWorkerService(
		uowFactory,
		catalogClient,
		transcriptionClient,
		embeddingProvider,
		splitter,
		statusBus,
		sysLogger,
	)
	if err := jobSub.Start(workerService.HandleJob); err != nil {
		log.Fatalf("[FATAL] Failed to start sync worker consumer: %v", err)
	}

	// 10. Status Fanout (websocket + email)
	notifService := service.NewNotificationService(statusBus, uowFactory, wsHub, emailService, wsLogger)
	if err := notifService.Start(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to start notification service: %v", err)
	}

	syncStatusHandler := handler.NewSyncStatusHandler(wsHub, wsLogger)

	return &Container{
		AuthController:    controller.NewAuthController(authService),
		PodcastController: controller.NewPodcastController(podcastService),
		LibraryController: controller.NewLibraryController(libraryService),
		SyncController:    controller.NewSyncController(syncService),
		ChatController:    controller.NewChatController(chatService),

		SyncStatusHandler: syncStatusHandler,
		WebSocketHub:      wsHub,

		JobPublisher:  jobPub,
		JobSubscriber: jobSub,
	}
}
