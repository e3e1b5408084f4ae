package broadcast

import (
	"chat-presence/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const bufferSize = 16

func chat(sender, content string) domain.ChatMessage {
	return domain.ChatMessage{
		ChatID:   "public",
		SenderID: sender,
		Content:  content,
		Type:     domain.MessageChat,
	}
}

func receive(t *testing.T, sub *Subscription) domain.ChatMessage {
	t.Helper()
	select {
	case message := <-sub.Events:
		return message
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return domain.ChatMessage{}
	}
}

func TestChannel_DeliversToAllSubscribers(t *testing.T) {
	req := require.New(t)
	channel := NewChannel(slog.Default(), bufferSize)

	sub1 := channel.Subscribe()
	sub2 := channel.Subscribe()
	req.Equal(2, channel.SubscriberCount())

	channel.Publish(chat("alice", "hello"))

	req.Equal("hello", receive(t, sub1).Content)
	req.Equal("hello", receive(t, sub2).Content)
}

func TestChannel_PreservesSenderOrder(t *testing.T) {
	req := require.New(t)
	channel := NewChannel(slog.Default(), bufferSize)

	sub := channel.Subscribe()
	channel.Publish(chat("alice", "E1"))
	channel.Publish(chat("alice", "E2"))

	req.Equal("E1", receive(t, sub).Content)
	req.Equal("E2", receive(t, sub).Content)
}

func TestChannel_LateSubscriberMissesEarlierEvents(t *testing.T) {
	req := require.New(t)
	channel := NewChannel(slog.Default(), bufferSize)

	channel.Publish(chat("alice", "E1"))

	late := channel.Subscribe()
	channel.Publish(chat("alice", "E2"))

	// E1 was published before the subscription existed; only E2 arrives.
	req.Equal("E2", receive(t, late).Content)
	req.Empty(late.Events)
}

func TestChannel_UnsubscribeStopsDelivery(t *testing.T) {
	req := require.New(t)
	channel := NewChannel(slog.Default(), bufferSize)

	sub := channel.Subscribe()
	channel.Unsubscribe(sub)
	req.Zero(channel.SubscriberCount())

	channel.Publish(chat("alice", "after"))
	req.Empty(sub.Events)
}

func TestChannel_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	channel := NewChannel(slog.Default(), 1)

	slow := channel.Subscribe()
	channel.Publish(chat("alice", "kept"))
	channel.Publish(chat("alice", "dropped"))

	req.Equal("kept", receive(t, slow).Content)
	req.Empty(slow.Events)
}

func TestChannel_ConcurrentSubscribeAndPublish(t *testing.T) {
	req := require.New(t)
	channel := NewChannel(slog.Default(), bufferSize)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			sub := channel.Subscribe()
			channel.Unsubscribe(sub)
		}
	}()

	for i := 0; i < 100; i++ {
		channel.Publish(chat("alice", "noise"))
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent subscribe/unsubscribe did not finish")
	}
	req.Zero(channel.SubscriberCount())
}
