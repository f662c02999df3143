package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
)

// initializeBroker starts a disposable RabbitMQ container and returns an
// enabled publisher plus a consumer channel bound to its exchange.
func initializeBroker(ctx context.Context, t *testing.T) (*Publisher, *amqp.Channel, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort(nat.Port("5672/tcp")).WithStartupTimeout(60 * time.Second),
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.AutoRemove = true
		},
	}

	rabbitContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := rabbitContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := rabbitContainer.Host(ctx)
	require.NoError(t, err)
	port, err := rabbitContainer.MappedPort(ctx, "5672")
	require.NoError(t, err)

	url := fmt.Sprintf("amqp://guest:guest@%s:%d/", host, port.Int())
	log := logger.NewLoggerClient(logger.Config{Level: "error", ServiceName: "events-test"})

	cfg := Config{Enabled: true, URL: url, Exchange: "materials.status.test"}

	var pub *Publisher
	require.Eventually(t, func() bool {
		pub, err = NewPublisher(cfg, log)
		return err == nil
	}, 30*time.Second, time.Second, "broker not ready")
	t.Cleanup(func() { _ = pub.Close() })

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	ch, err := conn.Channel()
	require.NoError(t, err)

	return pub, ch, cfg.Exchange
}

func bindQueue(t *testing.T, ch *amqp.Channel, exchange, pattern string) <-chan amqp.Delivery {
	t.Helper()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, pattern, exchange, false, nil))

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)
	return deliveries
}

func TestPublisherRoutesByStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pub, ch, exchange := initializeBroker(ctx, t)

	completed := bindQueue(t, ch, exchange, "material.completed")
	failed := bindQueue(t, ch, exchange, "material.failed")

	require.NoError(t, pub.PublishStatusChange(ctx, "mat-1", material.StatusCompleted, ""))
	require.NoError(t, pub.PublishStatusChange(ctx, "mat-2", material.StatusFailed, "extraction failed"))

	select {
	case d := <-completed:
		var ev StatusEvent
		require.NoError(t, json.Unmarshal(d.Body, &ev))
		assert.Equal(t, "mat-1", ev.MaterialID)
		assert.Equal(t, "completed", ev.Status)
		assert.Empty(t, ev.ErrorMessage)
	case <-time.After(10 * time.Second):
		t.Fatal("no completed event received")
	}

	select {
	case d := <-failed:
		var ev StatusEvent
		require.NoError(t, json.Unmarshal(d.Body, &ev))
		assert.Equal(t, "mat-2", ev.MaterialID)
		assert.Equal(t, "extraction failed", ev.ErrorMessage)
	case <-time.After(10 * time.Second):
		t.Fatal("no failed event received")
	}
}

func TestDisabledPublisherDropsEvents(t *testing.T) {
	log := logger.NewLoggerClient(logger.Config{Level: "error", ServiceName: "events-test"})

	pub, err := NewPublisher(Config{Enabled: false}, log)
	require.NoError(t, err)

	assert.NoError(t, pub.PublishStatusChange(context.Background(), "mat-1", material.StatusProcessing, ""))
	assert.NoError(t, pub.Close())
}
