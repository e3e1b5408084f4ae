package ws

import (
	"chat-presence/domain"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
)

// session is the per-connection state machine:
// connected -> joined -> left/disconnected.
//
// All writes to the connection happen on the write pump goroutine; the
// read loop only dispatches inbound events. Handler failures are logged
// and isolated per event, they never terminate the connection.
type session struct {
	gateway  *Gateway
	conn     *websocket.Conn
	log      *slog.Logger
	joined   bool
	username string
	nickname string
}

func newSession(gateway *Gateway, conn *websocket.Conn, remote string) *session {
	return &session{
		gateway: gateway,
		conn:    conn,
		log:     gateway.log.With("remote", remote),
	}
}

// run subscribes the connection to the broadcast channel, starts the write
// pump, and reads inbound frames until the transport closes. Teardown
// always unsubscribes and, if the client had joined, marks it offline and
// broadcasts the leave.
func (s *session) run() {
	sub := s.gateway.channel.Subscribe()
	done := make(chan struct{})

	go s.writePump(sub.Events, done)

	defer func() {
		s.disconnect()
		s.gateway.channel.Unsubscribe(sub)
		close(done)
		_ = s.conn.Close()
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("WebSocket read error", "error", err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			s.log.Warn("Discarding malformed frame", "error", err)
			continue
		}
		s.dispatch(envelope)
	}
}

func (s *session) dispatch(envelope Envelope) {
	var message domain.ChatMessage
	if err := json.Unmarshal(envelope.Payload, &message); err != nil {
		s.log.Warn("Discarding malformed payload", "event", envelope.Event, "error", err)
		return
	}

	switch envelope.Event {
	case EventAddUser:
		s.handleJoin(message)
	case EventSendMessage:
		s.handleChat(message)
	case EventRemoveUser:
		s.handleLeave(message)
	default:
		s.log.Debug("Ignoring unknown event", "event", envelope.Event)
	}
}

func (s *session) handleJoin(message domain.ChatMessage) {
	if err := s.gateway.presence.MarkOnline(message.SenderID); err != nil {
		s.log.Error("Failed to mark user online", "sender_id", message.SenderID, "error", err)
	}
	s.joined = true
	s.username = message.SenderID
	s.nickname = message.Nickname

	message.Type = domain.MessageJoin
	s.gateway.channel.Publish(message)
}

// handleChat relays the event unchanged; the server never rewrites message
// content.
func (s *session) handleChat(message domain.ChatMessage) {
	if message.Type == "" {
		message.Type = domain.MessageChat
	}
	s.gateway.channel.Publish(message)
}

func (s *session) handleLeave(message domain.ChatMessage) {
	if err := s.gateway.presence.MarkOffline(message.SenderID, message.Nickname); err != nil {
		s.log.Error("Failed to mark user offline", "sender_id", message.SenderID, "error", err)
	}
	s.joined = false

	message.Type = domain.MessageLeave
	s.gateway.channel.Publish(message)
}

// disconnect handles a transport-level close for a client that joined but
// never sent an explicit leave.
func (s *session) disconnect() {
	if !s.joined {
		return
	}
	s.handleLeave(domain.ChatMessage{
		SenderID: s.username,
		Nickname: s.nickname,
	})
}

// writePump drains the subscription and pushes envelopes to the client.
// It owns all writes on this connection.
func (s *session) writePump(events <-chan domain.ChatMessage, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case message := <-events:
			payload, err := json.Marshal(message)
			if err != nil {
				s.log.Error("Failed to marshal outbound event", "error", err)
				continue
			}
			envelope := Envelope{Event: EventMessage, Payload: payload}
			if err := s.conn.WriteJSON(envelope); err != nil {
				s.log.Debug("Write failed, client gone", "error", err)
				return
			}
		}
	}
}
