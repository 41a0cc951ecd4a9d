package outbox

import (
	"encoding/json"
	"time"

	"github.com/spf13/viper"
)

// Message represents an event waiting to be published to RabbitMQ.
// Messages are written in the same transaction as the state change
// they describe and drained by the outbox worker.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// NewEventMessage builds an outbox message for one checkout event,
// targeting the configured events exchange.
func NewEventMessage(routingKey string, payload any) (Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 10
	}

	now := time.Now()

	return Message{
		ExchangeName: viper.GetString("rabbitmq.exchange"),
		RoutingKey:   routingKey,
		Payload:      body,
		ContentType:  "application/json",
		MaxRetries:   maxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}, nil
}
