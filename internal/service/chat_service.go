package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-booking-be/internal/constant"
	"ai-booking-be/internal/dto"
	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/pkg/apperror"
	"ai-booking-be/internal/pkg/logger"
	"ai-booking-be/internal/repository/specification"
	"ai-booking-be/internal/repository/unitofwork"
	"ai-booking-be/pkg/assistant"

	"github.com/google/uuid"
)

type IChatService interface {
	CreateChat(ctx context.Context, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error)
	GetChats(ctx context.Context, userId uuid.UUID) ([]*dto.GetChatsResponse, error)
	GetHistory(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.MessageDTO, error)
	DeleteChat(ctx context.Context, userId, chatId uuid.UUID) error
	// SendMessage persists the user's message, drives an assistant run to
	// completion (dispatching booking tools on the way), persists the
	// reply, and returns both transcript entries.
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	client           assistant.Client
	assistantId      string
	pollInterval     time.Duration
	pollTimeout      time.Duration
	bookingService   IBookingService
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	client assistant.Client,
	assistantId string,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	bookingService IBookingService,
	publisherService IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		client:           client,
		assistantId:      assistantId,
		pollInterval:     pollInterval,
		pollTimeout:      pollTimeout,
		bookingService:   bookingService,
		publisherService: publisherService,
		logger:           log,
	}
}

func (c *chatService) CreateChat(ctx context.Context, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	title := req.Title
	if title == "" {
		title = "New booking chat"
	}

	chat := &entity.Chat{
		Id:        uuid.New(),
		UserId:    req.UserId,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, err
	}

	welcome := &entity.Message{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.MessageRoleAssistant,
		Content:   constant.ChatWelcomeMessage,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, welcome); err != nil {
		return nil, err
	}

	return &dto.CreateChatResponse{Id: chat.Id, Title: chat.Title}, nil
}

func (c *chatService) GetChats(ctx context.Context, userId uuid.UUID) ([]*dto.GetChatsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetChatsResponse, 0, len(chats))
	for _, chat := range chats {
		result = append(result, &dto.GetChatsResponse{
			Id:        chat.Id,
			Title:     chat.Title,
			CreatedAt: chat.CreatedAt,
			UpdatedAt: chat.UpdatedAt,
		})
	}
	return result, nil
}

func (c *chatService) GetHistory(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.MessageDTO, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if _, err := c.ownedChat(ctx, uow, chatId, userId); err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.MessageDTO, 0, len(messages))
	for _, msg := range messages {
		result = append(result, messageToDTO(msg))
	}
	return result, nil
}

func (c *chatService) DeleteChat(ctx context.Context, userId, chatId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if _, err := c.ownedChat(ctx, uow, chatId, userId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.BookingRepository().DeleteByChatId(ctx, chatId); err != nil {
		return err
	}
	if err := uow.MessageRepository().DeleteByChatId(ctx, chatId); err != nil {
		return err
	}
	if err := uow.ChatRepository().Delete(ctx, chatId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	c.bookingService.ForgetChatOwnership(chatId, userId)
	return nil
}

func (c *chatService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := c.ownedChat(ctx, uow, req.ChatId, req.UserId)
	if err != nil {
		return nil, err
	}

	// The user's message is committed before the assistant round-trip so
	// it survives an upstream failure.
	userMsg := &entity.Message{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.MessageRoleUser,
		Content:   req.Message,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}
	c.publishMessage(ctx, chat.Id, userMsg)

	threadId, err := c.ensureThread(ctx, chat)
	if err != nil {
		return nil, apperror.Integration("failed to prepare assistant thread", err)
	}

	if err := c.client.AddMessage(ctx, threadId, constant.MessageRoleUser, req.Message); err != nil {
		return nil, apperror.Integration("failed to forward message to assistant", err)
	}

	run, err := c.client.CreateRun(ctx, threadId, c.assistantId)
	if err != nil {
		return nil, apperror.Integration("failed to start assistant run", err)
	}

	poller := assistant.NewPoller(c.client, c.buildDispatcher(chat.Id, req.UserId), c.pollInterval, c.pollTimeout)
	if err := poller.Await(ctx, threadId, run.Id); err != nil {
		if errors.Is(err, assistant.ErrRunTimeout) {
			return nil, apperror.Timeout("assistant did not answer in time", err)
		}
		var failed *assistant.RunFailedError
		if errors.As(err, &failed) {
			return nil, apperror.Integration("assistant run "+failed.Status, err)
		}
		return nil, apperror.Integration("assistant run failed", err)
	}

	reply, err := c.client.LatestAssistantMessage(ctx, threadId)
	if err != nil {
		return nil, apperror.Integration("failed to read assistant reply", err)
	}

	assistantMsg := &entity.Message{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.MessageRoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, assistantMsg); err != nil {
		return nil, err
	}
	c.publishMessage(ctx, chat.Id, assistantMsg)

	return &dto.SendMessageResponse{
		ChatId: chat.Id,
		Sent:   messageToDTO(userMsg),
		Reply:  messageToDTO(assistantMsg),
	}, nil
}

// ensureThread lazily provisions the external assistant thread. Concurrent
// first sends race here; the conditional write keeps the first thread id
// and the loser re-reads the canonical value.
func (c *chatService) ensureThread(ctx context.Context, chat *entity.Chat) (string, error) {
	if chat.ThreadId != "" {
		return chat.ThreadId, nil
	}

	threadId, err := c.client.CreateThread(ctx)
	if err != nil {
		return "", err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatRepository().SetThreadId(ctx, chat.Id, threadId); err != nil {
		c.logger.Warn("ChatService", "Failed to store thread id", map[string]interface{}{
			"chat_id": chat.Id,
			"error":   err.Error(),
		})
	}

	stored, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chat.Id})
	if err != nil {
		return "", err
	}
	if stored == nil || stored.ThreadId == "" {
		return "", errors.New("chat lost its thread id")
	}
	chat.ThreadId = stored.ThreadId
	return stored.ThreadId, nil
}

// buildDispatcher binds the booking tools to the active conversation. Tool
// arguments never carry identity; the chat and user come from the send.
func (c *chatService) buildDispatcher(chatId, userId uuid.UUID) *assistant.Dispatcher {
	dispatcher := assistant.NewDispatcher()

	dispatcher.Register(constant.ToolStartBookingCall, func(ctx context.Context, call assistant.ToolCall) (string, error) {
		var args dto.StartBookingToolArgs
		if err := assistant.DecodeArguments(call, &args); err != nil {
			return "", err
		}
		resp, err := c.bookingService.StartBooking(ctx, &dto.StartBookingRequest{
			ChatId:          chatId,
			UserId:          userId,
			BookingType:     args.BookingType,
			BusinessName:    args.BusinessName,
			PhoneNumber:     args.PhoneNumber,
			DateTime:        args.DateTime,
			PartySize:       args.PartySize,
			CustomerName:    args.CustomerName,
			SpecialRequests: args.SpecialRequests,
		})
		if err != nil {
			return "", err
		}
		return assistant.SuccessOutput(map[string]interface{}{
			"bookingId": resp.BookingId.String(),
			"callId":    resp.CallId,
			"status":    constant.BookingStatusCalling,
		}), nil
	})

	dispatcher.Register(constant.ToolCheckBookingStatus, func(ctx context.Context, call assistant.ToolCall) (string, error) {
		var args dto.CheckBookingStatusToolArgs
		if err := assistant.DecodeArguments(call, &args); err != nil {
			return "", err
		}
		status, err := c.bookingService.GetBookingStatus(ctx, userId, args.BookingId)
		if err != nil {
			return "", err
		}
		fields := map[string]interface{}{
			"bookingId":    status.Id.String(),
			"status":       status.Status,
			"businessName": status.BusinessName,
			"dateTime":     status.DateTime,
		}
		if status.Result != nil {
			fields["result"] = status.Result
		}
		return assistant.SuccessOutput(fields), nil
	})

	return dispatcher
}

func (c *chatService) ownedChat(ctx context.Context, uow unitofwork.UnitOfWork, chatId, userId uuid.UUID) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperror.NotFound("chat not found")
	}
	return chat, nil
}

func (c *chatService) publishMessage(ctx context.Context, chatId uuid.UUID, msg *entity.Message) {
	if c.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.ChatEventMessage{
		ChatId:  chatId,
		Type:    "message",
		Message: messageToDTO(msg),
	})
	if err != nil {
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.logger.Warn("ChatService", "Failed to publish chat event", map[string]interface{}{
			"chat_id": chatId,
			"error":   err.Error(),
		})
	}
}

func messageToDTO(msg *entity.Message) *dto.MessageDTO {
	return &dto.MessageDTO{
		Id:        msg.Id,
		Role:      msg.Role,
		Content:   msg.Content,
		Metadata:  msg.Metadata,
		CreatedAt: msg.CreatedAt,
	}
}
