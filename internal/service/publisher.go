// Package service publishes thought activity events to RabbitMQ. Errors
// are logged and returned so callers can ignore failures without
// interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matildaw/happy-thoughts-api/internal/queue"
)

// ActivityPublisher publishes ThoughtEvents to the thought.activity
// queue. A connection is dialed per publish; events are rare enough that
// a persistent channel is not worth the reconnect bookkeeping.
type ActivityPublisher struct {
	URL string
}

func NewActivityPublisher() *ActivityPublisher {
	return &ActivityPublisher{URL: queue.BrokerURL()}
}

// PublishThoughtEvent sends one event, marked persistent so it survives
// broker restarts. Any error is logged and returned; it never panics.
func (p *ActivityPublisher) PublishThoughtEvent(ctx context.Context, ev queue.ThoughtEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so publisher and consumer can start in any order.
	if _, err := ch.QueueDeclare(queue.ActivityQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ActivityQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
