package workers

import (
	"chat-presence/broadcast"
	"chat-presence/domain"
	"chat-presence/repositories"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestPersistWorker_StoresChatOnly(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	log := slog.Default()
	repository := repositories.NewMessageRepository(db, log, nil)
	channel := broadcast.NewChannel(log, 16)
	worker := NewPersistWorker(log, channel, repository)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	// Let the worker subscribe before publishing.
	req.Eventually(func() bool { return channel.SubscriberCount() == 1 },
		time.Second, 10*time.Millisecond)

	channel.Publish(domain.ChatMessage{ChatID: "public", SenderID: "alice", Type: domain.MessageJoin})
	channel.Publish(domain.ChatMessage{ChatID: "public", SenderID: "alice", Content: "hello", Type: domain.MessageChat})
	channel.Publish(domain.ChatMessage{ChatID: "public", SenderID: "alice", Type: domain.MessageLeave})

	req.Eventually(func() bool {
		messages, err := repository.GetMessages("public")
		return err == nil && len(messages) == 1
	}, 2*time.Second, 20*time.Millisecond)

	messages, err := repository.GetMessages("public")
	req.NoError(err)
	req.Equal("hello", messages[0].Content)
	req.Equal("alice", messages[0].SenderID)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}

func TestSupervisor_RestartsPanickingWorker(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	runs := make(chan struct{}, 8)
	worker := &flakyWorker{runs: runs}

	sup := NewSupervisor(log, time.Millisecond)
	sup.Add(worker)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		sup.Run(ctx)
	}()

	// First run panics, the supervisor restarts, second run succeeds.
	req.Eventually(func() bool { return len(runs) >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("supervisor did not shut down")
	}
}

type flakyWorker struct {
	runs    chan struct{}
	started bool
}

func (w *flakyWorker) Run(ctx context.Context) error {
	w.runs <- struct{}{}
	if !w.started {
		w.started = true
		panic("first run fails")
	}
	<-ctx.Done()
	return nil
}
