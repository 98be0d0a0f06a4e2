package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches an upgraded connection to the hub as a subscriber of the
// given chat. It blocks until the connection closes.
func ServeWs(hub *Hub, c *websocket.Conn, chatId uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, ChatID: chatId, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
