package workers

import (
	"chat-presence/broadcast"
	"chat-presence/domain"
	"chat-presence/repositories"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PersistWorker subscribes to the broadcast channel and records CHAT
// traffic for later history queries. JOIN and LEAVE notifications are
// ephemeral and skipped.
//
// The broadcast path never depends on this worker: a storage failure is
// logged and the event is lost from history only, not from delivery.
type PersistWorker struct {
	log        *slog.Logger
	channel    *broadcast.Channel
	repository repositories.IMessageRepository
}

func NewPersistWorker(log *slog.Logger, channel *broadcast.Channel, repository repositories.IMessageRepository) *PersistWorker {
	return &PersistWorker{log: log, channel: channel, repository: repository}
}

func (w *PersistWorker) Run(ctx context.Context) error {
	sub := w.channel.Subscribe()
	defer w.channel.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping message persistence")
			return nil
		case message := <-sub.Events:
			if message.Type != domain.MessageChat {
				continue
			}
			diskMessage := repositories.DiskMessage{
				ID:       uuid.New(),
				ChatID:   message.ChatID,
				SenderID: message.SenderID,
				Content:  message.Content,
				At:       time.Now().UTC(),
			}
			if err := w.repository.StoreMessage(diskMessage); err != nil {
				w.log.Error("Failed to persist chat message",
					"chat_id", message.ChatID,
					"sender_id", message.SenderID,
					"error", err)
			}
		}
	}
}
