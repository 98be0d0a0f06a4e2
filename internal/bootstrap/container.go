package bootstrap

import (
	"context"
	"log"

	"ai-booking-be/internal/config"
	"ai-booking-be/internal/controller"
	"ai-booking-be/internal/pkg/logger"
	"ai-booking-be/internal/repository/unitofwork"
	"ai-booking-be/internal/service"
	"ai-booking-be/internal/websocket"
	"ai-booking-be/pkg/assistant"
	"ai-booking-be/pkg/callservice"

	pkgNats "ai-booking-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// chatEventsTopic is the in-process topic between persisting services and
// the websocket notifier.
const chatEventsTopic = "CHAT_MESSAGE_CREATED"

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	BookingController controller.IBookingController
	WebhookController controller.IWebhookController
	UserController    controller.IUserController

	// Background Services (exposed for main.go to run)
	NotifierService service.INotifierService

	// Services needed by the route layer
	UserService service.IUserService

	// WebSockets
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// NATS (optional: booking lifecycle events for external consumers)
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis (optional: cross-instance websocket fan-out)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Websocket fan-out is single-instance", err)
		rdb = nil
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Upstream clients
	assistantClient := assistant.NewHTTPClient(cfg.Assistant.APIKey, cfg.Assistant.BaseURL)
	callClient := callservice.NewClient(
		cfg.CallService.BaseURL,
		cfg.CallService.Method,
		cfg.CallService.Language,
		cfg.CallService.Timeout,
	)

	// 5. Services
	publisherService := service.NewPublisherService(chatEventsTopic, pubSub)
	notifierService := service.NewNotifierService(pubSub, chatEventsTopic, wsHub, wsLogger)

	userService := service.NewUserService(uowFactory, cfg.Demo)
	bookingService := service.NewBookingService(uowFactory, callClient, natsPub, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		assistantClient,
		cfg.Assistant.AssistantID,
		cfg.Assistant.PollInterval,
		cfg.Assistant.PollTimeout,
		bookingService,
		publisherService,
		sysLogger,
	)
	webhookService := service.NewWebhookService(
		uowFactory,
		cfg.Webhook.AuthMode,
		cfg.Webhook.Secret,
		publisherService,
		natsPub,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		ChatController:    controller.NewChatController(chatService),
		BookingController: controller.NewBookingController(bookingService),
		WebhookController: controller.NewWebhookController(webhookService),
		UserController:    controller.NewUserController(userService),
		NotifierService:   notifierService,
		UserService:       userService,
		WebSocketHub:      wsHub,
		Logger:            sysLogger,
	}
}
