package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-booking-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisChannel carries chat events between instances so a subscriber
// connected to one instance still sees messages persisted by another.
const redisChannel = "chat_events"

// Hub tracks live websocket subscriptions keyed by chat. A chat can have
// several subscribers (same user on multiple tabs or devices).
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Optional: when nil the hub is single-instance only.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ChatID] = append(h.clients[client.ChatID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client subscribed to chat", map[string]interface{}{"chat_id": client.ChatID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ChatID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ChatID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ChatID]) == 0 {
					delete(h.clients, client.ChatID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToChat pushes an event to every subscriber of the chat, locally and
// via Redis to subscribers held by other instances.
func (h *Hub) SendToChat(chatId uuid.UUID, eventType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to serialize chat event", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(chatId, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"chat_id": chatId.String(),
			"message": json.RawMessage(data),
		})
		if err := h.rdb.Publish(context.Background(), redisChannel, envelope).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(chatId uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := h.clients[chatId]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Subscriber buffer full, dropping connection", map[string]interface{}{"chat_id": chatId})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope struct {
			ChatID  string          `json:"chat_id"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Bad Redis payload", map[string]interface{}{"error": err.Error()})
			continue
		}

		chatId, err := uuid.Parse(envelope.ChatID)
		if err != nil {
			continue
		}
		h.deliverLocal(chatId, envelope.Message)
	}
}
