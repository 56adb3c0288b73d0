package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// dialTimeout bounds how long a draw waits on an unreachable broker.
const dialTimeout = 3 * time.Second

// Publisher sends draw audit events to RabbitMQ. A connection is dialed
// per publish; draws are rare enough that pooling is not worth it.
type Publisher struct {
	URL string
}

// NewPublisher returns a Publisher for the given AMQP URL.
func NewPublisher(url string) *Publisher {
	return &Publisher{URL: url}
}

// PublishDrawRecorded publishes the event to the raffle.draw.recorded
// queue as a persistent message. Errors are logged and returned so the
// caller can choose to ignore them.
func (p *Publisher) PublishDrawRecorded(ctx context.Context, event DrawRecordedEvent) error {
	log := zap.L().With(zap.Uint64("raffle_id", event.RaffleID), zap.Uint64("draw_id", event.DrawID))

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declareDrawQueue(ch); err != nil {
		log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		MessageId:    uuid.NewString(),
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", DrawRecordedQueue, false, false, pub); err != nil {
		log.Warn("rabbitmq: publish failed", zap.Error(err))
		return err
	}
	return nil
}

// declareDrawQueue makes sure the durable audit queue exists (idempotent).
func declareDrawQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		DrawRecordedQueue, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	)
	return err
}
