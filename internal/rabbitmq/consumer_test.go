//go:build integration

package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestPublishAndConsume_NotificationQueues(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	amqpURI, cleanup := brokerURI(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		received []string
	)
	wg.Add(2)
	handler := func(body []byte) error {
		var msg map[string]string
		if err := json.Unmarshal(body, &msg); err != nil {
			return err
		}
		mu.Lock()
		received = append(received, msg["client_id"])
		mu.Unlock()
		wg.Done()
		return nil
	}

	require.NoError(t, ConsumerMessage(ctx, ch, "notifications.expiring", handler, newNoopLogger()))

	pub := NewPublisher(ch)
	require.NoError(t, pub.Publish(RoutingKeyExpiring, map[string]string{"client_id": "c-1"}))
	require.NoError(t, pub.Publish(RoutingKeyExpiring, map[string]string{"client_id": "c-2"}))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Timeout waiting for messages to be processed")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"c-1", "c-2"}, received)
}

func TestConsumerMessage_HandlerErrorTriggersNack(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	amqpURI, cleanup := brokerURI(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := conn.Channel()
	require.NoError(t, err)

	queueName := "nack-test"
	_, err = ch.QueueDeclare(queueName, false, false, false, false, nil)
	require.NoError(t, err)

	// Обработчик отвечает ошибкой на первую доставку и принимает повторную
	var (
		mu       sync.Mutex
		attempts int
	)
	redelivered := make(chan struct{})
	handler := func(_ []byte) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return fmt.Errorf("fail")
		}
		close(redelivered)
		return nil
	}

	require.NoError(t, ConsumerMessage(ctx, ch, queueName, handler, newNoopLogger()))
	require.NoError(t, PublishMessage(ch, "", queueName, map[string]bool{"ok": true}))

	select {
	case <-redelivered:
	case <-time.After(10 * time.Second):
		t.Fatal("Did not receive requeued message after Nack")
	}
}
