/**
 * @description
 * AMQP toast sink. Publishes every toast as a JSON event to a topic exchange
 * so a frontend (or anything else) can subscribe to "toast.*" routing keys.
 * Publishing is best-effort: a broker failure is logged, never surfaced to
 * the operation that produced the toast.
 */
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const toastExchange = "storefront.events"

// ToastEvent is the published payload.
type ToastEvent struct {
	ID    string `json:"id"`
	Level Level  `json:"level"`
	Text  string `json:"text"`
	At    int64  `json:"at"`
}

// AMQP publishes toasts to a RabbitMQ topic exchange.
type AMQP struct {
	channel *amqp091.Channel
	conn    *amqp091.Connection
	logger  *slog.Logger
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewAMQP connects to the broker and declares the toast exchange.
func NewAMQP(amqpURL string, logger *slog.Logger) (*AMQP, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(
		toastExchange, // name
		"topic",       // type
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQP{channel: channel, conn: conn, logger: logger}, nil
}

func (a *AMQP) Notify(level Level, text string) {
	event := ToastEvent{
		ID:    uuid.NewString(),
		Level: level,
		Text:  text,
		At:    time.Now().UnixMilli(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		a.logger.Error("failed to marshal toast event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = a.channel.PublishWithContext(ctx,
		toastExchange,
		"toast."+string(level),
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		a.logger.Error("failed to publish toast event", "error", err)
	}
}

// Close releases the channel and connection.
func (a *AMQP) Close() {
	if a.channel != nil {
		a.channel.Close()
	}
	if a.conn != nil {
		a.conn.Close()
	}
}
