package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// Options tunes broker connections. Zero values fall back to driver defaults.
type Options struct {
	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// Open connects to the broker selected by driver ("nats" or "rabbitmq").
func Open(driver, url string, opts Options, log *zap.Logger) (MessageQueue, error) {
	switch driver {
	case "nats":
		return NewNATSQueue(url, opts, log)
	case "rabbitmq":
		return NewRabbitMQQueue(url, opts, log)
	default:
		return nil, fmt.Errorf("unknown queue driver %q", driver)
	}
}
