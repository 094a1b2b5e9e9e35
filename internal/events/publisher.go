package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/casavia/estate-backend/internal/logger"
)

// Publisher отправляет события жизненного цикла переговоров в topic-exchange
// RabbitMQ. Внешние потребители (CRM, аналитика) подписываются по routing key
// вида offer.created, offer.countered, offer.accepted, offer.rejected.
type Publisher struct {
	conn     *amqp091.Connection
	exchange string
}

// New подключается к RabbitMQ и объявляет exchange.
func New(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:     conn,
		exchange: exchange,
	}, nil
}

// Publish отправляет событие с указанным routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(
		ctx, p.exchange, routingKey, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err == nil && logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"routing_key": routingKey,
			"exchange":    p.exchange,
		}).Debug("событие опубликовано")
	}
	return err
}

// Close закрывает соединение с брокером.
func (p *Publisher) Close() error {
	return p.conn.Close()
}
