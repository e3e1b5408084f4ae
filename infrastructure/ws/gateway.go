// Package ws bridges a connected client's event stream to the presence
// service and the broadcast channel.
package ws

import (
	"chat-presence/broadcast"
	"chat-presence/services"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Inbound event names, matching the historical client protocol.
const (
	EventSendMessage = "chat.sendMessage"
	EventAddUser     = "chat.addUser"
	EventRemoveUser  = "chat.removeUser"
)

// EventMessage is the name carried by every outbound envelope.
const EventMessage = "chat.message"

// Envelope is the JSON frame exchanged over the WebSocket.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Gateway upgrades client connections and runs one session per connection.
type Gateway struct {
	log      *slog.Logger
	presence services.IPresenceService
	channel  *broadcast.Channel
	upgrader websocket.Upgrader
}

func NewGateway(log *slog.Logger, presence services.IPresenceService, channel *broadcast.Channel) *Gateway {
	return &Gateway{
		log:      log,
		presence: presence,
		channel:  channel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeHTTP upgrades the connection and blocks running the session until
// the client disconnects.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	session := newSession(g, conn, r.RemoteAddr)
	session.run()
}
