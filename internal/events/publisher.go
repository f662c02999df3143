package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
)

// StatusEvent is the wire format of one status transition.
type StatusEvent struct {
	MaterialID   string `json:"materialId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	OccurredAt   string `json:"occurredAt"`
}

// Publisher emits StatusEvents on a topic exchange. A disabled Publisher is
// valid and drops every event silently.
type Publisher struct {
	cfg    Config
	logger *logger.Logger

	// mu serializes channel use; amqp channels are not goroutine safe.
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to the broker and declares the topic exchange when
// publishing is enabled.
func NewPublisher(cfg Config, log *logger.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Publisher{cfg: cfg, logger: log}
	if !cfg.Enabled {
		return p, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("events: dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("events: declare exchange %q: %w", cfg.Exchange, err)
	}

	p.conn = conn
	p.channel = ch
	return p, nil
}

// PublishStatusChange emits one event routed as "material.<status>".
func (p *Publisher) PublishStatusChange(ctx context.Context, id string, status material.Status, errorMessage string) error {
	if !p.cfg.Enabled {
		return nil
	}

	body, err := json.Marshal(StatusEvent{
		MaterialID:   id,
		Status:       string(status),
		ErrorMessage: errorMessage,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.cfg.Exchange,
		"material."+string(status),
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("events: publish: %w", err)
	}
	return nil
}

// Close shuts down the channel and connection.
func (p *Publisher) Close() error {
	if !p.cfg.Enabled {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("failed to close broker channel", err, nil)
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
