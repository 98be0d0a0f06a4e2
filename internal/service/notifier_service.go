package service

import (
	"context"
	"encoding/json"

	"ai-booking-be/internal/dto"
	"ai-booking-be/internal/pkg/logger"
	"ai-booking-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// INotifierService bridges the in-process event topic to the websocket hub:
// every persisted chat message fans out to live subscribers of its chat.
type INotifierService interface {
	Consume(ctx context.Context) error
}

type notifierService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	logger    logger.ILogger
}

func NewNotifierService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	log logger.ILogger,
) INotifierService {
	return &notifierService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (s *notifierService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *notifierService) processMessage(msg *message.Message) {
	var event dto.ChatEventMessage
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		s.logger.Warn("NotifierService", "Failed to unmarshal chat event", map[string]interface{}{"error": err.Error()})
		// Ack malformed payloads, retrying cannot fix them.
		msg.Ack()
		return
	}

	s.hub.SendToChat(event.ChatId, event.Type, event)
	msg.Ack()
}
