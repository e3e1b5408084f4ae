package domain

type MessageType string

const (
	MessageChat  MessageType = "CHAT"
	MessageJoin  MessageType = "JOIN"
	MessageLeave MessageType = "LEAVE"
)

// ChatMessage is the event relayed on the broadcast channel.
//
// SenderID references a user by username, without any foreign-key
// guarantee: an unknown sender is a transient participant, not an error.
// Nickname is a legacy display-name alias some clients still send on
// disconnect; it only matters for fallback resolution.
type ChatMessage struct {
	ChatID   string      `json:"chatId"`
	SenderID string      `json:"senderId"`
	Content  string      `json:"content,omitempty"`
	Type     MessageType `json:"type"`
	Nickname string      `json:"nickName,omitempty"`
}
