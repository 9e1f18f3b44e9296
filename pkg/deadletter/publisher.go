// Package deadletter publishes records whose commit recovery was exhausted
// to a RabbitMQ exchange, so they can be replayed or inspected outside the
// consumer actor that gave up on them.
package deadletter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Record is what gets dead-lettered: enough to find the record again
// (topic, partition, offset) plus why the commit was abandoned.
type Record struct {
	GroupID   string `json:"group_id"`
	Topic     string `json:"topic"`
	Partition int32  `json:"partition"`
	Offset    int64  `json:"offset"`
	Reason    string `json:"reason"`
}

// Publisher publishes dead-lettered records over a confirm-mode channel,
// mirroring the teacher's pkg/rabbitmq Producer.Publish confirmation flow.
type Publisher struct {
	cfg     Config
	conn    *amqp.Connection
	channel *amqp.Channel
	confirm chan amqp.Confirmation
}

// NewPublisher dials RabbitMQ and puts the channel into confirm mode.
func NewPublisher(cfg Config) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{Dial: amqp.DefaultDial(cfg.ConnectTimeout)})
	if err != nil {
		return nil, fmt.Errorf("deadletter: dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("deadletter: open channel: %w", err)
	}
	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("deadletter: enable confirm mode: %w", err)
	}

	return &Publisher{
		cfg:     cfg,
		conn:    conn,
		channel: channel,
		confirm: channel.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.channel.Close()
	return p.conn.Close()
}

// Publish sends rec as a persistent JSON message and waits for broker
// acknowledgment, matching the teacher's Producer.Publish confirmation
// wait pattern.
func (p *Publisher) Publish(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("deadletter: marshal record: %w", err)
	}

	messageID := uuid.New().String()
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    time.Now(),
		Body:         body,
	}

	if err := p.channel.Publish(p.cfg.Exchange, p.cfg.RoutingKey, false, false, msg); err != nil {
		return fmt.Errorf("deadletter: publish: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
	defer cancel()

	select {
	case <-publishCtx.Done():
		return fmt.Errorf("deadletter: confirmation timeout: %w", publishCtx.Err())
	case confirmation := <-p.confirm:
		if !confirmation.Ack {
			return fmt.Errorf("deadletter: message not acknowledged by broker")
		}
	}
	return nil
}
