package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"pet-harness-store/models"
)

const publishTimeout = 5 * time.Second

type channelSource interface {
	Get() (*amqp.Channel, error)
	Put(ch *amqp.Channel)
}

// sendFunc delivers one message to queue on ch.
type sendFunc func(ctx context.Context, ch *amqp.Channel, queue string, msg amqp.Publishing) error

func publishToQueue(ctx context.Context, ch *amqp.Channel, queue string, msg amqp.Publishing) error {
	return ch.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		msg)
}

type Publisher struct {
	pool      channelSource
	send      sendFunc
	queueName string
}

func NewPublisher(pool *ChannelPool, queueName string) *Publisher {
	return &Publisher{
		pool:      pool,
		send:      publishToQueue,
		queueName: queueName,
	}
}

// orderPlacedMessage builds the persistent message for event.
func orderPlacedMessage(event models.OrderPlaced, body []byte) amqp.Publishing {
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.EventID,
		Timestamp:    event.PlacedAt,
		Type:         "order.placed",
		Body:         body,
	}
}

// PublishOrderPlaced sends a persistent message to the order events queue.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, event models.OrderPlaced) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal order event")
	}

	ch, err := p.pool.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get channel from pool")
	}
	defer p.pool.Put(ch)

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.send(ctx, ch, p.queueName, orderPlacedMessage(event, body))
	if err != nil {
		return errors.Wrap(err, "failed to publish order event")
	}

	log.WithFields(log.Fields{
		"order_id": event.OrderID,
		"event_id": event.EventID,
		"queue":    p.queueName,
	}).Info("Published order placed event")
	return nil
}
